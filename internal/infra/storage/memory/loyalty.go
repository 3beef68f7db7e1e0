package memory

import (
	"context"
	"sync"
)

// Loyalty tiers by lifetime spend.
const (
	LevelBronze   = "Bronze"
	LevelSilver   = "Silver"
	LevelGold     = "Gold"
	LevelPlatinum = "Platinum"

	silverThreshold   = 25000
	goldThreshold     = 50000
	platinumThreshold = 100000
)

type LoyaltyProfile struct {
	GuestID    string
	Points     int64
	TotalSpent int64
	Level      string
}

// LoyaltyStore is an in-memory loyalty ledger implementing the
// policies.Loyalty port.
type LoyaltyStore struct {
	mu       sync.Mutex
	profiles map[string]*LoyaltyProfile
}

func NewLoyaltyStore() *LoyaltyStore {
	return &LoyaltyStore{profiles: make(map[string]*LoyaltyProfile)}
}

func (s *LoyaltyStore) CreditPoints(ctx context.Context, guestID string, points, spent int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profile(guestID)
	p.Points += points
	p.TotalSpent += spent
	p.Level = levelFor(p.TotalSpent)
	return nil
}

// DebitPoints claws back points and spend, clamping at zero so a profile can
// never go negative.
func (s *LoyaltyStore) DebitPoints(ctx context.Context, guestID string, points, spent int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profile(guestID)
	p.Points -= points
	if p.Points < 0 {
		p.Points = 0
	}
	p.TotalSpent -= spent
	if p.TotalSpent < 0 {
		p.TotalSpent = 0
	}
	p.Level = levelFor(p.TotalSpent)
	return nil
}

func (s *LoyaltyStore) Profile(guestID string) LoyaltyProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.profile(guestID)
}

func (s *LoyaltyStore) profile(guestID string) *LoyaltyProfile {
	p, ok := s.profiles[guestID]
	if !ok {
		p = &LoyaltyProfile{GuestID: guestID, Level: LevelBronze}
		s.profiles[guestID] = p
	}
	return p
}

func levelFor(totalSpent int64) string {
	switch {
	case totalSpent >= platinumThreshold:
		return LevelPlatinum
	case totalSpent >= goldThreshold:
		return LevelGold
	case totalSpent >= silverThreshold:
		return LevelSilver
	default:
		return LevelBronze
	}
}
