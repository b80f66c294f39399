package mockhub

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleAdminStats(c *gin.Context) {
	s.mu.Lock()
	stats := gin.H{
		"total_users":    len(s.accounts),
		"active_users":   0,
		"total_podcasts": len(s.podcasts),
		"paid_users":     0,
	}

	active, paid := 0, 0
	for _, acc := range s.accounts {
		if acc.IsActive {
			active++
		}
		if acc.Plan != "FREE" {
			paid++
		}
	}
	s.mu.Unlock()

	stats["active_users"] = active
	stats["paid_users"] = paid
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleAdminUsers(c *gin.Context) {
	search := strings.ToLower(c.Query("search"))

	s.mu.Lock()
	list := make([]gin.H, 0)
	for _, acc := range s.accounts {
		if search != "" &&
			!strings.Contains(strings.ToLower(acc.Email), search) &&
			!strings.Contains(strings.ToLower(acc.Username), search) {
			continue
		}
		entry := userJSON(acc)
		entry["is_active"] = acc.IsActive
		list = append(list, entry)
	}
	s.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i]["email"].(string) < list[j]["email"].(string)
	})

	c.JSON(http.StatusOK, list)
}

type adminUserUpdate struct {
	IsActive *bool   `json:"is_active"`
	Role     *string `json:"role"`
}

func (s *Server) handleAdminUpdateUser(c *gin.Context) {
	target := s.accountByID(c.Param("id"))
	if target == nil {
		notFound(c, "user not found")
		return
	}

	var req adminUserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid update")
		return
	}

	if req.Role != nil && *req.Role != "user" && *req.Role != "admin" {
		badRequest(c, "role must be user or admin")
		return
	}

	s.mu.Lock()
	if req.IsActive != nil {
		target.IsActive = *req.IsActive
	}
	if req.Role != nil {
		target.Role = *req.Role
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

func (s *Server) handleAdminDeleteUser(c *gin.Context) {
	actor := currentAccount(c)
	target := s.accountByID(c.Param("id"))
	if target == nil {
		notFound(c, "user not found")
		return
	}

	if target.ID == actor.ID {
		badRequest(c, "you cannot delete your own account")
		return
	}

	s.mu.Lock()
	delete(s.accounts, target.Email)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
