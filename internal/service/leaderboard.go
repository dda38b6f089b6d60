package service

import (
	"context"
	"fmt"

	"gamebot/internal/model"
	"gamebot/internal/repository"
)

// TopSize is how many entries each leaderboard shows.
const TopSize = 10

// LeaderboardService serves the wealth and activity rankings.
type LeaderboardService struct {
	users *repository.UserRepository
}

// NewLeaderboardService creates a new LeaderboardService instance.
func NewLeaderboardService(users *repository.UserRepository) *LeaderboardService {
	return &LeaderboardService{users: users}
}

// TopByWealth returns the richest players by wallet value. Black gold
// does not count toward the ranking.
func (s *LeaderboardService) TopByWealth(ctx context.Context) ([]*model.UserAccount, error) {
	top, err := s.users.TopByWealth(ctx, TopSize)
	if err != nil {
		return nil, fmt.Errorf("wealth leaderboard: %w", err)
	}
	return top, nil
}

// TopByMessages returns the most active players by message count.
func (s *LeaderboardService) TopByMessages(ctx context.Context) ([]*model.UserAccount, error) {
	top, err := s.users.TopByMessages(ctx, TopSize)
	if err != nil {
		return nil, fmt.Errorf("messages leaderboard: %w", err)
	}
	return top, nil
}
