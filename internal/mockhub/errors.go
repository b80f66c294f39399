package mockhub

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// standardized error response; next_action and email ride along on auth
// errors so the client can resume an interrupted onboarding
type errorResponse struct {
	Error       string   `json:"error"`
	Message     string   `json:"message"`
	NextAction  string   `json:"next_action,omitempty"`
	Email       string   `json:"email,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// standard error codes
const (
	codeUnauthorized    = "unauthorized"
	codeTokenExpired    = "TOKEN_EXPIRED"
	codeForbidden       = "forbidden"
	codeNotFound        = "not_found"
	codeBadRequest      = "bad_request"
	codeConflict        = "conflict"
	codeTooManyRequests = "too_many_requests"
)

func unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: codeUnauthorized, Message: message})
}

// 401 with the TOKEN_EXPIRED code the client's interceptor keys on
func tokenExpired(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: codeTokenExpired, Message: "Token expired"})
}

func forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "permission denied"
	}
	c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Error: codeForbidden, Message: message})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, errorResponse{Error: codeNotFound, Message: message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: codeBadRequest, Message: message})
}
