package mockhub

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWT claims minted for Hub bearer tokens
type claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// creates a bearer token for the account
func (s *Server) generateToken(acc *account) (string, error) {
	now := time.Now()

	c := claims{
		UserID:  acc.ID,
		Email:   acc.Email,
		IsAdmin: acc.Role == "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// validates a bearer token. expiredOK lets the refresh endpoint accept a
// token that is stale but otherwise genuine.
func (s *Server) parseToken(tokenString string, expiredOK bool) (*claims, error) {
	keyFunc := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, keyFunc)
	if err != nil {
		if expiredOK {
			// re-parse without claim validation to accept a stale exp
			parser := jwt.NewParser(jwt.WithoutClaimsValidation())
			parsed, err = parser.ParseWithClaims(tokenString, &claims{}, keyFunc)
		}
		if err != nil {
			return nil, err
		}
	}

	if c, ok := parsed.Claims.(*claims); ok {
		return c, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// extracts and validates the bearer token, putting the account on the
// gin context. Expired tokens get the TOKEN_EXPIRED code so the client
// knows a refresh is worth trying.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			unauthorized(c, "authorization header required")
			return
		}

		parsed, err := s.parseToken(token, false)
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				tokenExpired(c)
				return
			}
			unauthorized(c, "invalid token")
			return
		}

		acc := s.accountByEmail(parsed.Email)
		if acc == nil || !acc.IsActive {
			unauthorized(c, "account not found")
			return
		}

		c.Set("account", acc)
		c.Next()
	}
}

// requires an authenticated admin; runs after authMiddleware
func (s *Server) adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		acc := currentAccount(c)
		if acc == nil {
			unauthorized(c, "")
			return
		}
		if acc.Role != "admin" {
			forbidden(c, "admin access required")
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}

func currentAccount(c *gin.Context) *account {
	v, ok := c.Get("account")
	if !ok {
		return nil
	}
	acc, _ := v.(*account)
	return acc
}
