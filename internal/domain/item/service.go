package item

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrNotFound        = errors.New("item not found")
	ErrTitleRequired   = errors.New("title required")
	ErrInvalidStatus   = errors.New("invalid item status")
	ErrInvalidCategory = errors.New("invalid item category")
)

type Service struct {
	repo   Repository
	hooks  VoteHooks
	logger *zap.Logger
}

func NewService(repo Repository, hooks VoteHooks, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, hooks: hooks, logger: logger}
}

func (s *Service) Create(ctx context.Context, it *Item) error {
	it.Title = strings.TrimSpace(it.Title)
	if it.Title == "" {
		return ErrTitleRequired
	}
	if it.Category == "" {
		it.Category = CategoryPost
	}
	if it.Category != CategoryPost && it.Category != CategoryPage {
		return ErrInvalidCategory
	}
	if it.Status == "" {
		it.Status = StatusDraft
	}
	if !validStatus(it.Status) {
		return ErrInvalidStatus
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return err
	}
	if it.Eligible() {
		s.initializeVotes(ctx, it.ID)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status *string) ([]Item, error) {
	return s.repo.List(ctx, status)
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !validStatus(status) {
		return ErrInvalidStatus
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	wasEligible := current.Eligible()

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	current.Status = status

	switch {
	case current.Eligible() && !wasEligible:
		s.initializeVotes(ctx, id)
	case wasEligible && !current.Eligible():
		s.forgetVotes(ctx, id)
	}
	return nil
}

// Delete removes the item. Its counters go with it at the store level.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.forgetVotes(ctx, id)
	return nil
}

// initializeVotes failures do not fail the item operation; the first vote
// creates missing counters anyway.
func (s *Service) initializeVotes(ctx context.Context, id int64) {
	if s.hooks == nil {
		return
	}
	if err := s.hooks.Initialize(ctx, id); err != nil {
		s.logger.Warn("Failed to initialize vote counters", zap.Int64("item_id", id), zap.Error(err))
	}
}

func (s *Service) forgetVotes(ctx context.Context, id int64) {
	if s.hooks == nil {
		return
	}
	s.hooks.Forget(ctx, id)
}

func validStatus(status string) bool {
	return status == StatusDraft || status == StatusPublished
}
