package authstate

// what a route guard wants done with a navigation attempt
type Decision int

const (
	// auth state still resolving: show a neutral waiting view, do not
	// redirect yet (avoids a flash-redirect before Init finishes)
	DecisionWait Decision = iota
	DecisionAllow
	DecisionRedirectLogin
	DecisionRedirectUnauthorized
)

// guard for screens that require any authenticated user
func GuardPrivate(s *State) Decision {
	if s.Loading() {
		return DecisionWait
	}
	if !s.IsAuthenticated() {
		return DecisionRedirectLogin
	}
	return DecisionAllow
}

// guard for admin screens. An authenticated non-admin has a valid
// session, just insufficient privilege: that is "unauthorized", not a
// bounce back to login.
func GuardAdmin(s *State) Decision {
	if s.Loading() {
		return DecisionWait
	}
	if !s.IsAuthenticated() {
		return DecisionRedirectLogin
	}
	if !s.IsAdmin() {
		return DecisionRedirectUnauthorized
	}
	return DecisionAllow
}
