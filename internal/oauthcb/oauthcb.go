// Package oauthcb runs a short-lived loopback HTTP listener that catches
// the OAuth provider's redirect back to this machine. The redirect URL
// carries the token and onboarding hints as query parameters.
package oauthcb

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"codeberg.org/podhub/hub/internal/logger"
	"codeberg.org/podhub/hub/internal/onboarding"
	"github.com/gin-gonic/gin"
)

// what the provider redirect delivered
type Result struct {
	Token      string
	NextAction onboarding.Action
	Email      string
}

// how long the browser tab gets before we give up
const waitTimeout = 3 * time.Minute

// Listen serves one callback request on addr and returns its parameters.
// The server shuts down after the first hit, on timeout, or when ctx is
// cancelled.
func Listen(ctx context.Context, addr string) (*Result, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	results := make(chan Result, 1)

	router.GET("/callback", func(c *gin.Context) {
		res := Result{
			Token:      c.Query("token"),
			NextAction: onboarding.Action(c.Query("next_action")),
			Email:      c.Query("email"),
		}

		// "null" is how the backend spells "no further action" in a URL
		if res.NextAction == "null" {
			res.NextAction = onboarding.ActionNone
		}

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, "<html><body>Signed in. You can return to the terminal.</body></html>")

		select {
		case results <- res:
		default:
		}
	})

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{Handler: router}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorErr(err, "oauth callback listener failed")
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.ErrorErr(err, "oauth callback shutdown failed")
		}
	}()

	timer := time.NewTimer(waitTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, errors.New("timed out waiting for the OAuth redirect")
	case res := <-results:
		if res.Token == "" {
			return nil, errors.New("provider redirect carried no token")
		}
		return &res, nil
	}
}
