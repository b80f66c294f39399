// Package mockhub is an in-memory implementation of the Podcast Link Hub
// API contract, used to develop and end-to-end test the terminal client
// without the production backend.
package mockhub

import (
	"strings"
	"time"

	"codeberg.org/podhub/hub/internal/config"
	"codeberg.org/podhub/hub/internal/logger"
	"codeberg.org/podhub/hub/internal/onboarding"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// creates a mock server with a seeded admin account
func New(cfg *config.MockConfig) *Server {
	s := &Server{
		cfg:           cfg,
		accounts:      make(map[string]*account),
		notifications: make(map[string][]notification),
		orders:        make(map[string]*paymentOrder),
	}

	// a ready-made admin so the admin screens are reachable out of the box
	admin := &account{
		ID:            uuid.NewString(),
		Email:         "admin@podhub.local",
		Password:      "admin",
		Username:      "admin",
		Name:          "Hub Admin",
		Role:          "admin",
		Plan:          "PREMIUM",
		LoginMethod:   "LOCAL",
		IsActive:      true,
		CreatedAt:     time.Now(),
		EmailVerified: true,
		PhoneVerified: true,
		ProfileDone:   true,
	}
	s.accounts[admin.Email] = admin

	s.initOAuth(cfg.BaseURL)

	return s
}

// builds the gin engine with all routes and middleware
func (s *Server) Engine() *gin.Engine {
	if s.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// anti-spam throttle on the send endpoints, mirroring the client's
	// 60 second resend cooldown
	sendRate := limiter.Rate{Period: time.Minute, Limit: 5}
	sendLimiter := mgin.NewMiddleware(limiter.New(memory.NewStore(), sendRate))

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register", s.handleRegister)
			users.POST("/login", s.handleLogin)
			users.POST("/refresh-token", s.handleRefreshToken)
			users.POST("/logout", s.handleLogout)
			users.GET("/verify-email", s.handleVerifyEmail)
			users.GET("/verify-email/:token", s.handleVerifyEmail)
			users.POST("/resend-verification", sendLimiter, s.handleResendVerification)
			users.POST("/send-otp", sendLimiter, s.handleSendOTP)
			users.POST("/verify-otp", s.handleVerifyOTP)
			users.POST("/resume-flow", s.handleResumeFlow)
			users.GET("/auth/google", s.handleGoogleAuth)
			users.GET("/auth/google/callback", s.handleGoogleCallback)

			authed := users.Group("", s.authMiddleware())
			{
				authed.GET("/me", s.handleCurrentUser)
				authed.POST("/complete-profile", s.handleCompleteProfile)
				authed.PUT("/edit-profile", s.handleEditProfile)
				authed.GET("/notifications", s.handleNotifications)
				authed.PUT("/notifications/:id/seen", s.handleNotificationSeen)
			}
		}

		pod := api.Group("/podcast")
		{
			pod.GET("/free", s.handleFreePodcasts)
			pod.GET("/mine", s.authMiddleware(), s.handleMyPodcasts)
			pod.POST("/create", s.authMiddleware(), s.handleCreatePodcast)
			pod.GET("/playlists", s.authMiddleware(), s.handlePlaylists)
			pod.GET("/:username", s.handlePublicPage)
			pod.POST("/track/:username", s.handleTrackVisit)
		}

		yt := api.Group("/youtube", s.authMiddleware())
		{
			yt.GET("/links", s.handleYouTubeLinks)
			yt.POST("/links", s.handleAddYouTubeLink)
			yt.DELETE("/links/:id", s.handleDeleteYouTubeLink)
		}

		pay := api.Group("/payment", s.authMiddleware())
		{
			pay.POST("/create-order", s.handleCreateOrder)
			pay.POST("/verify", s.handleVerifyPayment)
		}

		admin := api.Group("/admin", s.authMiddleware(), s.adminMiddleware())
		{
			admin.GET("/stats", s.handleAdminStats)
			admin.GET("/users", s.handleAdminUsers)
			admin.PUT("/users/:id", s.handleAdminUpdateUser)
			admin.DELETE("/users/:id", s.handleAdminDeleteUser)
		}
	}

	return router
}

// runs the mock server until the listener fails
func (s *Server) Run() error {
	logger.Info("mockhub listening", "addr", s.cfg.Addr)
	return s.Engine().Run(s.cfg.Addr)
}

// looks up an account, case-insensitive on email
func (s *Server) accountByEmail(email string) *account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[strings.ToLower(email)]
}

func (s *Server) accountByID(id string) *account {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.ID == id {
			return acc
		}
	}
	return nil
}

// the server-driven onboarding progression: email, then phone, then
// profile, then nothing left to do
func nextAction(acc *account) onboarding.Action {
	switch {
	case !acc.EmailVerified:
		return onboarding.ActionEmailVerification
	case !acc.PhoneVerified:
		return onboarding.ActionMobileOTP
	case !acc.ProfileDone:
		return onboarding.ActionProfileUpdated
	default:
		return onboarding.ActionNone
	}
}

// public JSON shape of an account
func userJSON(acc *account) gin.H {
	return gin.H{
		"id":              acc.ID,
		"email":           acc.Email,
		"username":        acc.Username,
		"name":            acc.Name,
		"phone":           acc.Phone,
		"role":            acc.Role,
		"plan":            acc.Plan,
		"login_method":    acc.LoginMethod,
		"profile_picture": acc.ProfilePicture,
		"created_at":      acc.CreatedAt,
	}
}
