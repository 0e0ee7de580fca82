package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"challengeTrackerAPI/internal/metrics"
	"challengeTrackerAPI/internal/store"
	"challengeTrackerAPI/internal/types/challenge"
	"challengeTrackerAPI/utils"
)

type ChallengeService struct {
	store         store.Store
	notifications *NotificationService
	now           func() time.Time
}

// NewChallengeService builds the catalog service. notifications may be nil.
func NewChallengeService(st store.Store, notifications *NotificationService) *ChallengeService {
	return &ChallengeService{store: st, notifications: notifications, now: time.Now}
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, creatorID string, req *challenge.CreateChallengeRequest) (*challenge.Challenge, error) {
	c := &challenge.Challenge{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Duration:     req.Duration,
		Difficulty:   req.Difficulty,
		CoverImage:   req.CoverImage,
		DailyPrompts: append([]string{}, req.DailyPrompts...),
		Participants: 0,
		CreatedBy:    creatorID,
		CreatedAt:    s.now().UTC(),
	}
	if c.Difficulty == "" {
		c.Difficulty = challenge.DifficultyBeginner
	}
	if err := normalizeSchedule(c, req.Duration <= 0); err != nil {
		return nil, err
	}

	var err error
	if c.Slug, err = s.uniqueSlug(ctx, c.Title, c.ID); err != nil {
		return nil, err
	}

	if err := s.store.Challenges().Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	log.Printf("ChallengeService: created challenge %s (%s)", c.ID, c.Slug)

	if s.notifications != nil {
		s.notifications.NotifyNewChallenge(ctx, c)
	}
	return c, nil
}

// UpdateChallenge merges the non-nil fields of req. An unknown id is a silent
// no-op reported as a nil challenge.
func (s *ChallengeService) UpdateChallenge(ctx context.Context, id string, req *challenge.UpdateChallengeRequest) (*challenge.Challenge, error) {
	c, err := s.store.Challenges().Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}

	datesChanged := false
	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.StartDate != nil {
		c.StartDate = *req.StartDate
		datesChanged = true
	}
	if req.EndDate != nil {
		c.EndDate = *req.EndDate
		datesChanged = true
	}
	if req.Duration != nil {
		c.Duration = *req.Duration
	}
	if req.Difficulty != nil {
		c.Difficulty = *req.Difficulty
	}
	if req.CoverImage != nil {
		c.CoverImage = *req.CoverImage
	}
	if req.DailyPrompts != nil {
		c.DailyPrompts = append([]string{}, req.DailyPrompts...)
	}

	if err := normalizeSchedule(c, datesChanged && req.Duration == nil); err != nil {
		return nil, err
	}

	if err := s.store.Challenges().Update(ctx, c); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}
	return s.store.Challenges().Get(ctx, id)
}

// DeleteChallenge removes the challenge with its logs and join records.
// An unknown id is a silent no-op.
func (s *ChallengeService) DeleteChallenge(ctx context.Context, id string) error {
	if err := s.store.Challenges().Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	log.Printf("ChallengeService: deleted challenge %s", id)
	return nil
}

// JoinChallenge adds the user to the challenge. Joining twice changes nothing.
func (s *ChallengeService) JoinChallenge(ctx context.Context, userID, challengeID string) (*challenge.Challenge, error) {
	joined, err := s.store.Challenges().Join(ctx, userID, challengeID)
	if err != nil {
		if isNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to join challenge: %w", err)
	}
	if joined {
		metrics.ChallengeJoins.Inc()
	}
	return s.store.Challenges().Get(ctx, challengeID)
}

// LeaveChallenge is not offered: participant counts only ever grow.
func (s *ChallengeService) LeaveChallenge(ctx context.Context, userID, challengeID string) error {
	return fmt.Errorf("%w: leaving a challenge", ErrNotSupported)
}

func (s *ChallengeService) ListChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	return s.store.Challenges().List(ctx)
}

func (s *ChallengeService) GetChallenge(ctx context.Context, id string) (*challenge.Challenge, error) {
	return s.store.Challenges().Get(ctx, id)
}

func (s *ChallengeService) GetChallengeBySlug(ctx context.Context, slug string) (*challenge.Challenge, error) {
	return s.store.Challenges().GetBySlug(ctx, slug)
}

// ListForUser splits the catalog into the challenges userID joined and the
// rest, both in catalog order.
func (s *ChallengeService) ListForUser(ctx context.Context, userID string) (*challenge.Overview, error) {
	u, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.store.Challenges().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	overview := &challenge.Overview{Joined: []*challenge.Challenge{}, Available: []*challenge.Challenge{}}
	for _, c := range all {
		if u.HasJoined(c.ID) {
			overview.Joined = append(overview.Joined, c)
		} else {
			overview.Available = append(overview.Available, c)
		}
	}
	return overview, nil
}

// AdminStats counts challenges, those whose end date is still ahead, and
// participants across all of them.
func (s *ChallengeService) AdminStats(ctx context.Context) (*challenge.AdminStats, error) {
	all, err := s.store.Challenges().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	today := utils.FormatDate(s.now())
	stats := &challenge.AdminStats{TotalChallenges: len(all)}
	for _, c := range all {
		if c.EndDate > today {
			stats.ActiveChallenges++
		}
		stats.TotalParticipants += c.Participants
	}
	return stats, nil
}

func (s *ChallengeService) uniqueSlug(ctx context.Context, title, id string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "challenge"
	}

	_, err := s.store.Challenges().GetBySlug(ctx, base)
	if errors.Is(err, store.ErrNotFound) {
		return base, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to check slug: %w", err)
	}
	return base + "-" + id[:8], nil
}

// normalizeSchedule validates the dates and, when derive is set, recomputes
// the duration from them.
func normalizeSchedule(c *challenge.Challenge, derive bool) error {
	days, err := utils.DurationDays(c.StartDate, c.EndDate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if days < 0 {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidDate, c.EndDate, c.StartDate)
	}
	if derive {
		c.Duration = days
	}
	return nil
}
