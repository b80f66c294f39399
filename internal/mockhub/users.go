package mockhub

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"codeberg.org/podhub/hub/internal/logger"
	"codeberg.org/podhub/hub/internal/onboarding"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// fixed OTP so developers never need a real SMS gateway
const devOTP = "424242"

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, email and a password of at least 6 characters are required")
		return
	}

	email := strings.ToLower(req.Email)

	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		c.JSON(http.StatusConflict, errorResponse{Error: codeConflict, Message: "An account with this email already exists"})
		return
	}

	acc := &account{
		ID:          uuid.NewString(),
		Email:       email,
		Password:    req.Password,
		Name:        req.Name,
		Role:        "user",
		Plan:        "FREE",
		LoginMethod: "LOCAL",
		IsActive:    true,
		CreatedAt:   time.Now(),
		VerifyToken: uuid.NewString(),
	}
	s.accounts[email] = acc
	s.mu.Unlock()

	// stands in for the verification mail
	logger.Info("verification link issued", "email", email, "token", acc.VerifyToken)

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Please check your email for verification link",
		"next_action": onboarding.ActionEmailVerification,
		"email":       email,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	acc := s.accountByEmail(req.Email)
	if acc == nil {
		unauthorized(c, "Invalid email or password")
		return
	}

	if acc.LoginMethod == "GOOGLE" && acc.Password == "" {
		unauthorized(c, "This account was created with Google. Please sign in with Google instead.")
		return
	}

	if acc.Password != req.Password {
		unauthorized(c, "Invalid email or password")
		return
	}

	if !acc.IsActive {
		forbidden(c, "Account is deactivated")
		return
	}

	if action := nextAction(acc); action != onboarding.ActionNone {
		c.JSON(http.StatusForbidden, errorResponse{
			Error:      codeForbidden,
			Message:    "Please finish setting up your account",
			NextAction: string(action),
			Email:      acc.Email,
		})
		return
	}

	token, err := s.generateToken(acc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "server_error", Message: "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"isAdmin": acc.Role == "admin",
		"email":   acc.Email,
	})
}

// exchanges a genuine-but-stale token for a fresh one
func (s *Server) handleRefreshToken(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		unauthorized(c, "authorization header required")
		return
	}

	parsed, err := s.parseToken(token, true)
	if err != nil {
		unauthorized(c, "invalid token")
		return
	}

	acc := s.accountByEmail(parsed.Email)
	if acc == nil || !acc.IsActive {
		unauthorized(c, "account not found")
		return
	}

	fresh, err := s.generateToken(acc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "server_error", Message: "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": fresh})
}

func (s *Server) handleLogout(c *gin.Context) {
	// tokens are stateless here; revocation is a no-op
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) handleCurrentUser(c *gin.Context) {
	acc := currentAccount(c)
	c.JSON(http.StatusOK, userJSON(acc))
}

// redeems a verification token from either link form:
// /verify-email?token=x or /verify-email/x
func (s *Server) handleVerifyEmail(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		badRequest(c, "verification token is required")
		return
	}

	s.mu.Lock()
	var acc *account
	for _, candidate := range s.accounts {
		if candidate.VerifyToken != "" && candidate.VerifyToken == token {
			acc = candidate
			break
		}
	}
	if acc == nil {
		s.mu.Unlock()
		badRequest(c, "Invalid or expired verification link")
		return
	}

	acc.EmailVerified = true
	acc.VerifyToken = ""
	action := nextAction(acc)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message":     "Email verified successfully",
		"next_action": action,
		"email":       acc.Email,
	})
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

func (s *Server) handleResendVerification(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email is required")
		return
	}

	acc := s.accountByEmail(req.Email)
	if acc == nil {
		notFound(c, "No account found for this email")
		return
	}

	if acc.EmailVerified {
		badRequest(c, "Email is already verified")
		return
	}

	s.mu.Lock()
	acc.VerifyToken = uuid.NewString()
	s.mu.Unlock()

	logger.Info("verification link reissued", "email", acc.Email, "token", acc.VerifyToken)
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}

type sendOTPRequest struct {
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone"`
}

func (s *Server) handleSendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email is required")
		return
	}

	acc := s.accountByEmail(req.Email)
	if acc == nil {
		notFound(c, "No account found for this email")
		return
	}

	if !acc.EmailVerified {
		badRequest(c, "Verify your email before requesting an OTP")
		return
	}

	s.mu.Lock()
	if req.Phone != "" {
		acc.Phone = req.Phone
	}
	acc.OTP = devOTP
	s.mu.Unlock()

	// stands in for the SMS
	logger.Info("otp issued", "email", acc.Email, "otp", devOTP)
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("OTP sent to %s", acc.Phone)})
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

func (s *Server) handleVerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and otp are required")
		return
	}

	acc := s.accountByEmail(req.Email)
	if acc == nil {
		notFound(c, "No account found for this email")
		return
	}

	s.mu.Lock()
	// verifying the same OTP twice is fine: the step is idempotent once
	// the phone is marked verified
	if !acc.PhoneVerified {
		if acc.OTP == "" || acc.OTP != req.OTP {
			s.mu.Unlock()
			badRequest(c, "Invalid OTP")
			return
		}
		acc.PhoneVerified = true
		acc.OTP = ""
	}
	action := nextAction(acc)
	s.mu.Unlock()

	token, err := s.generateToken(acc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "server_error", Message: "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Mobile number verified",
		"token":       token,
		"next_action": action,
		"email":       acc.Email,
	})
}

type completeProfileRequest struct {
	Username    string `json:"username" binding:"required"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleCompleteProfile(c *gin.Context) {
	acc := currentAccount(c)

	var req completeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username is required")
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	s.mu.Lock()
	for _, other := range s.accounts {
		if other.ID != acc.ID && other.Username == username {
			s.mu.Unlock()
			c.JSON(http.StatusConflict, errorResponse{
				Error:       codeConflict,
				Message:     "Username is already taken",
				Suggestions: usernameSuggestions(username),
			})
			return
		}
	}

	acc.Username = username
	if req.NewPassword != "" {
		acc.Password = req.NewPassword
	}
	acc.ProfileDone = true
	s.mu.Unlock()

	token, err := s.generateToken(acc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "server_error", Message: "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile completed",
		"token":   token,
	})
}

// tells an interrupted onboarding where to pick up
func (s *Server) handleResumeFlow(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email is required")
		return
	}

	acc := s.accountByEmail(req.Email)
	if acc == nil {
		notFound(c, "No account found for this email")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"next_action": nextAction(acc),
		"email":       acc.Email,
	})
}

type editProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Bio   *string `json:"bio"`
}

func (s *Server) handleEditProfile(c *gin.Context) {
	acc := currentAccount(c)

	var req editProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid profile update")
		return
	}

	s.mu.Lock()
	if req.Name != nil {
		acc.Name = *req.Name
	}
	if req.Phone != nil {
		acc.Phone = *req.Phone
	}
	if req.Bio != nil {
		acc.Bio = *req.Bio
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

func (s *Server) handleNotifications(c *gin.Context) {
	acc := currentAccount(c)

	s.mu.Lock()
	list := append([]notification(nil), s.notifications[acc.ID]...)
	s.mu.Unlock()

	if list == nil {
		list = []notification{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleNotificationSeen(c *gin.Context) {
	acc := currentAccount(c)
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications[acc.ID] {
		if s.notifications[acc.ID][i].ID == id {
			s.notifications[acc.ID][i].Seen = true
			c.JSON(http.StatusOK, gin.H{"message": "marked as seen"})
			return
		}
	}

	notFound(c, "notification not found")
}

// variants offered when the wanted username is taken
func usernameSuggestions(base string) []string {
	return []string{
		base + "1",
		base + "_podcasts",
		fmt.Sprintf("%s%d", base, time.Now().Year()),
	}
}
