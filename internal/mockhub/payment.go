package mockhub

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// plan prices in paise, matching the gateway's integer-amount convention
var planAmounts = map[string]int{
	"SILVER":  19900,
	"GOLD":    49900,
	"PREMIUM": 99900,
}

type createOrderRequest struct {
	Plan string `json:"plan" binding:"required"`
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	acc := currentAccount(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "plan is required")
		return
	}

	amount, ok := planAmounts[req.Plan]
	if !ok {
		badRequest(c, "unknown plan")
		return
	}

	order := &paymentOrder{
		OrderID: "order_" + uuid.NewString(),
		UserID:  acc.ID,
		Plan:    req.Plan,
		Amount:  amount,
	}

	s.mu.Lock()
	s.orders[order.OrderID] = order
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"order_id": order.OrderID,
		"amount":   order.Amount,
		"currency": "INR",
		"plan":     order.Plan,
	})
}

type verifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	Plan      string `json:"plan"`
}

func (s *Server) handleVerifyPayment(c *gin.Context) {
	acc := currentAccount(c)

	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "order_id, payment_id and signature are required")
		return
	}

	s.mu.Lock()
	order, ok := s.orders[req.OrderID]
	s.mu.Unlock()

	if !ok || order.UserID != acc.ID {
		notFound(c, "order not found")
		return
	}

	if req.Signature != s.Signature(req.OrderID, req.PaymentID) {
		badRequest(c, "Payment signature verification failed")
		return
	}

	s.mu.Lock()
	acc.Plan = order.Plan
	delete(s.orders, req.OrderID)

	// the dashboard's notification bell picks this up on its next poll
	s.notifications[acc.ID] = append(s.notifications[acc.ID], notification{
		ID:        uuid.NewString(),
		Type:      "PLAN_UPGRADED",
		Message:   "Your plan is now " + order.Plan,
		CreatedAt: time.Now(),
	})
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Payment verified", "plan": order.Plan})
}

// Signature computes the gateway-style HMAC over order and payment IDs.
// Exposed so tests and the client's simulated checkout can produce a
// signature the verify endpoint accepts.
func (s *Server) Signature(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.JWTSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
