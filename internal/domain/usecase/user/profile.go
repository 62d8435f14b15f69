package user

import (
	"context"
	"fmt"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/port/persistence"
)

// Profile bundles a user with their earnings history
type Profile struct {
	User             *entity.User
	Events           []*entity.ReferralEvent
	TotalProfitCents int64
}

// NetworkNode is one direct referral with their own direct referrals
type NetworkNode struct {
	User     *entity.User
	Children []*entity.User
}

// ProfileService serves the read-only account and network views
type ProfileService struct {
	userRepo        persistence.UserRepository
	eventRepo       persistence.ReferralEventRepository
	logger          coreport.Logger
	referralBaseURL string
}

// NewProfileService creates a new profile service
func NewProfileService(
	userRepo persistence.UserRepository,
	eventRepo persistence.ReferralEventRepository,
	logger coreport.Logger,
	referralBaseURL string,
) *ProfileService {
	return &ProfileService{
		userRepo:        userRepo,
		eventRepo:       eventRepo,
		logger:          logger,
		referralBaseURL: referralBaseURL,
	}
}

// Profile returns the user with their earnings history and paid total
func (s *ProfileService) Profile(ctx context.Context, userID uint64) (*Profile, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.eventRepo.SumPaidByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, Events: events, TotalProfitCents: total}, nil
}

// DirectReferrals returns the user's first-level downline
func (s *ProfileService) DirectReferrals(ctx context.Context, userID uint64) ([]*entity.User, error) {
	return s.userRepo.GetDirectReferrals(ctx, userID)
}

// ReferralLink returns the user's code and the shareable signup link carrying it
func (s *ProfileService) ReferralLink(ctx context.Context, userID uint64) (string, string, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return u.RefCode, fmt.Sprintf("%s?ref=%s", s.referralBaseURL, u.RefCode), nil
}

// Network returns a two-level view of the user's downline
func (s *ProfileService) Network(ctx context.Context, userID uint64) ([]*NetworkNode, error) {
	directs, err := s.userRepo.GetDirectReferrals(ctx, userID)
	if err != nil {
		return nil, err
	}

	nodes := make([]*NetworkNode, 0, len(directs))
	for _, d := range directs {
		children, err := s.userRepo.GetDirectReferrals(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &NetworkNode{User: d, Children: children})
	}
	return nodes, nil
}
