package mockhub

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type podcastRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url"`
	SpotifyURL  string `json:"spotify_url"`
	AppleURL    string `json:"apple_url"`
	YouTubeURL  string `json:"youtube_url"`
}

func (s *Server) handleCreatePodcast(c *gin.Context) {
	acc := currentAccount(c)

	var req podcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title is required")
		return
	}

	p := &podcast{
		ID:          uuid.NewString(),
		OwnerID:     acc.ID,
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		SpotifyURL:  req.SpotifyURL,
		AppleURL:    req.AppleURL,
		YouTubeURL:  req.YouTubeURL,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.podcasts = append(s.podcasts, p)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, p)
}

func (s *Server) handleMyPodcasts(c *gin.Context) {
	acc := currentAccount(c)

	s.mu.Lock()
	list := make([]*podcast, 0)
	for _, p := range s.podcasts {
		if p.OwnerID == acc.ID {
			list = append(list, p)
		}
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, list)
}

// podcasts by creators on the free tier, optionally filtered by q
func (s *Server) handleFreePodcasts(c *gin.Context) {
	query := strings.ToLower(c.Query("q"))

	s.mu.Lock()
	list := make([]*podcast, 0)
	for _, p := range s.podcasts {
		owner := s.ownerOf(p)
		if owner == nil || owner.Plan != "FREE" {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Title), query) {
			continue
		}
		list = append(list, p)
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, list)
}

func (s *Server) handlePlaylists(c *gin.Context) {
	// the real backend groups by playlist; the mock just returns everything
	s.mu.Lock()
	list := append([]*podcast(nil), s.podcasts...)
	s.mu.Unlock()

	if list == nil {
		list = []*podcast{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handlePublicPage(c *gin.Context) {
	username := strings.ToLower(c.Param("username"))

	s.mu.Lock()
	var owner *account
	for _, acc := range s.accounts {
		if acc.Username == username {
			owner = acc
			break
		}
	}
	if owner == nil {
		s.mu.Unlock()
		notFound(c, "No creator with this username")
		return
	}

	list := make([]*podcast, 0)
	for _, p := range s.podcasts {
		if p.OwnerID == owner.ID {
			list = append(list, p)
		}
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"username":        owner.Username,
		"name":            owner.Name,
		"plan":            owner.Plan,
		"profile_picture": owner.ProfilePicture,
		"bio":             owner.Bio,
		"podcasts":        list,
	})
}

func (s *Server) handleTrackVisit(c *gin.Context) {
	username := strings.ToLower(c.Param("username"))

	s.mu.Lock()
	for _, acc := range s.accounts {
		if acc.Username != username {
			continue
		}
		for _, p := range s.podcasts {
			if p.OwnerID == acc.ID {
				p.Visits++
			}
		}
		s.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"message": "tracked"})
		return
	}
	s.mu.Unlock()

	notFound(c, "No creator with this username")
}

func (s *Server) handleYouTubeLinks(c *gin.Context) {
	acc := currentAccount(c)

	s.mu.Lock()
	list := make([]*youtubeLink, 0)
	for _, l := range s.links {
		if l.OwnerID == acc.ID {
			list = append(list, l)
		}
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, list)
}

type youtubeLinkRequest struct {
	YouTubeURL string `json:"youtube_url" binding:"required"`
}

func (s *Server) handleAddYouTubeLink(c *gin.Context) {
	acc := currentAccount(c)

	var req youtubeLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "youtube_url is required")
		return
	}

	if !strings.Contains(req.YouTubeURL, "youtube.com") && !strings.Contains(req.YouTubeURL, "youtu.be") {
		badRequest(c, "not a YouTube URL")
		return
	}

	link := &youtubeLink{
		ID:         uuid.NewString(),
		OwnerID:    acc.ID,
		YouTubeURL: req.YouTubeURL,
	}

	s.mu.Lock()
	s.links = append(s.links, link)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, link)
}

func (s *Server) handleDeleteYouTubeLink(c *gin.Context) {
	acc := currentAccount(c)
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.links {
		if l.ID == id && l.OwnerID == acc.ID {
			s.links = append(s.links[:i], s.links[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "deleted"})
			return
		}
	}

	notFound(c, "link not found")
}

// must be called with s.mu held
func (s *Server) ownerOf(p *podcast) *account {
	for _, acc := range s.accounts {
		if acc.ID == p.OwnerID {
			return acc
		}
	}
	return nil
}
