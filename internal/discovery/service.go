// Package discovery implements the HTTP-based partner discovery feature:
// ranking idle users by shared interest tags and picking a random online
// user for the skip flow. It consumes the user store only and never
// touches the live session state.
package discovery

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/pairwire/pairwire-server/internal/store"
)

// MaxResults caps how many ranked matches are returned.
const MaxResults = 10

// Match is one ranked discovery result.
type Match struct {
	User  *store.User
	Score int // number of overlapping interest tags
}

// Service ranks and picks candidate partners.
// The random source is injected so tests can fix the seed.
type Service struct {
	users store.UserStore

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a discovery service backed by the given user store.
func New(users store.UserStore, rng *rand.Rand) *Service {
	return &Service{users: users, rng: rng}
}

// FindMatches returns up to MaxResults online users ranked by the count
// of interest tags shared with the requesting user. Score ties are
// broken by an independent random ordering.
func (s *Service) FindMatches(ctx context.Context, userID int64) ([]Match, error) {
	self, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load requesting user: %w", err)
	}

	candidates, err := s.users.ListOnline(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list online users: %w", err)
	}

	own := make(map[string]struct{}, len(self.Interests))
	for _, tag := range self.Interests {
		own[tag] = struct{}{}
	}

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		score := 0
		for _, tag := range candidate.Interests {
			if _, shared := own[tag]; shared {
				score++
			}
		}
		matches = append(matches, Match{User: candidate, Score: score})
	}

	// Shuffle first so that the stable sort leaves equal scores in a
	// random relative order.
	s.mu.Lock()
	s.rng.Shuffle(len(matches), func(i, j int) {
		matches[i], matches[j] = matches[j], matches[i]
	})
	s.mu.Unlock()

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	return matches, nil
}

// RandomPick returns a single uniformly random online user, or
// store.ErrNotFound when nobody else is online.
func (s *Service) RandomPick(ctx context.Context, userID int64) (*store.User, error) {
	candidates, err := s.users.ListOnline(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list online users: %w", err)
	}
	if len(candidates) == 0 {
		return nil, store.ErrNotFound
	}

	s.mu.Lock()
	idx := s.rng.Intn(len(candidates))
	s.mu.Unlock()

	return candidates[idx], nil
}
