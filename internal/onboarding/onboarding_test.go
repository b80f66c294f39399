package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute_KnownActions(t *testing.T) {
	assert.Equal(t, DestVerifyEmail, Route(ActionEmailVerification))
	assert.Equal(t, DestVerifyOTP, Route(ActionMobileOTP))
	assert.Equal(t, DestCompleteProfile, Route(ActionProfileUpdated))
	assert.Equal(t, DestDashboard, Route(ActionDashboard))
	assert.Equal(t, DestDashboard, Route(ActionNone))
}

func TestRoute_UnknownActionFallsOpen(t *testing.T) {
	assert.Equal(t, DestDashboard, Route(Action("SOMETHING_NEW")))
	assert.Equal(t, DestDashboard, Route(Action("null")))
}

func TestDestination_String(t *testing.T) {
	assert.Equal(t, "verify-email", DestVerifyEmail.String())
	assert.Equal(t, "verify-otp", DestVerifyOTP.String())
	assert.Equal(t, "complete-profile", DestCompleteProfile.String())
	assert.Equal(t, "dashboard", DestDashboard.String())
}

func TestNormalizeContext_Shapes(t *testing.T) {
	direct := StepContext{Email: "a@example.com", Message: "hi"}
	assert.Equal(t, direct, NormalizeContext(direct))
	assert.Equal(t, direct, NormalizeContext(&direct))

	// a bare string is an email
	assert.Equal(t, StepContext{Email: "b@example.com"}, NormalizeContext("b@example.com"))

	// decoded JSON object
	fromMap := NormalizeContext(map[string]any{
		"email":   "c@example.com",
		"message": "check your inbox",
	})
	assert.Equal(t, "c@example.com", fromMap.Email)
	assert.Equal(t, "check your inbox", fromMap.Message)
}

func TestNormalizeContext_Junk(t *testing.T) {
	assert.Equal(t, StepContext{}, NormalizeContext(nil))
	assert.Equal(t, StepContext{}, NormalizeContext(42))
	assert.Equal(t, StepContext{}, NormalizeContext((*StepContext)(nil)))
	assert.Equal(t, StepContext{}, NormalizeContext(map[string]any{"email": 7}))
}
