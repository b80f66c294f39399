package onboarding

// state carried between onboarding screens so a destination can render
// without re-deriving the email from durable storage
type StepContext struct {
	Email   string
	Message string
}

// builds a context carrying only an email
func ContextFromEmail(email string) StepContext {
	return StepContext{Email: email}
}

// builds a context carrying an email and a banner message
func ContextFrom(email, message string) StepContext {
	return StepContext{Email: email, Message: message}
}

// NormalizeContext accepts the shapes callers historically passed around
// (a bare email string, a ready-made StepContext, or a decoded JSON map
// with "email"/"message" keys) and produces the one canonical shape.
// New code should construct StepContext directly; this exists for payloads
// that arrive untyped, such as OAuth redirect parameters.
func NormalizeContext(v any) StepContext {
	switch ctx := v.(type) {
	case StepContext:
		return ctx
	case *StepContext:
		if ctx != nil {
			return *ctx
		}
	case string:
		return StepContext{Email: ctx}
	case map[string]any:
		out := StepContext{}
		if email, ok := ctx["email"].(string); ok {
			out.Email = email
		}
		if msg, ok := ctx["message"].(string); ok {
			out.Message = msg
		}
		return out
	}

	return StepContext{}
}
