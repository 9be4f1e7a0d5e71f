package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pairwire/pairwire-server/internal/discovery"
	"github.com/pairwire/pairwire-server/internal/store"
)

const maxInterests = 20

// DiscoveryHandlers provides HTTP handlers for the partner discovery
// endpoints and the interests profile update.
type DiscoveryHandlers struct {
	disco *discovery.Service
	store store.Store
	log   *zerolog.Logger
}

// NewDiscoveryHandlers creates a new discovery handlers instance.
func NewDiscoveryHandlers(disco *discovery.Service, st store.Store, logger *zerolog.Logger) *DiscoveryHandlers {
	return &DiscoveryHandlers{
		disco: disco,
		store: st,
		log:   logger,
	}
}

// UpdateInterestsRequest represents the interests update body.
// An empty list clears the profile.
type UpdateInterestsRequest struct {
	Interests []string `json:"interests"`
}

// MatchResponse represents one ranked discovery result.
type MatchResponse struct {
	UserID      int64    `json:"user_id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	Interests   []string `json:"interests"`
	Score       int      `json:"score"`
}

// UpdateInterests replaces the caller's interest tags.
// PUT /api/profile/interests
func (h *DiscoveryHandlers) UpdateInterests(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req UpdateInterestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if len(req.Interests) > maxInterests {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "too many interests"})
		return
	}

	// Normalize: lowercase, trimmed, deduplicated, no empties.
	seen := make(map[string]struct{}, len(req.Interests))
	normalized := make([]string, 0, len(req.Interests))
	for _, tag := range req.Interests {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}

	if err := h.store.UpdateInterests(c.Request.Context(), uid, normalized); err != nil {
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to update interests")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"interests": normalized})
}

// FindMatches returns up to 10 online users ranked by shared interests.
// GET /api/matches
func (h *DiscoveryHandlers) FindMatches(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	matches, err := h.disco.FindMatches(c.Request.Context(), uid)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to find matches")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		response = append(response, MatchResponse{
			UserID:      m.User.ID,
			Username:    m.User.Username,
			DisplayName: m.User.DisplayName,
			Interests:   m.User.Interests,
			Score:       m.Score,
		})
	}

	c.JSON(http.StatusOK, response)
}

// RandomPick returns a single uniformly random online user.
// GET /api/matches/random
func (h *DiscoveryHandlers) RandomPick(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	picked, err := h.disco.RandomPick(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "nobody else is online"})
			return
		}
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to pick random user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, MatchResponse{
		UserID:      picked.ID,
		Username:    picked.Username,
		DisplayName: picked.DisplayName,
		Interests:   picked.Interests,
	})
}
