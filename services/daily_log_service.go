package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"challengeTrackerAPI/internal/metrics"
	"challengeTrackerAPI/internal/store"
	"challengeTrackerAPI/internal/types/calendar"
	"challengeTrackerAPI/internal/types/challenge"
	"challengeTrackerAPI/internal/types/dailylog"
	"challengeTrackerAPI/utils"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 100
)

type DailyLogService struct {
	store store.Store
	now   func() time.Time
}

func NewDailyLogService(st store.Store) *DailyLogService {
	return &DailyLogService{store: st, now: time.Now}
}

// SaveDailyLog creates the user's log for challengeID on date, or overwrites
// the existing one in place. Repeated saves for the same day keep one row and
// its original id.
func (s *DailyLogService) SaveDailyLog(ctx context.Context, userID, challengeID, date string, req *dailylog.SaveDailyLogRequest) (*dailylog.DailyLog, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	saved, err := s.store.DailyLogs().Upsert(ctx, &dailylog.DailyLog{
		UserID:      userID,
		ChallengeID: challengeID,
		Date:        date,
		Text:        req.Text,
		Completed:   req.Completed,
		PhotoURL:    req.PhotoURL,
		Timestamp:   s.now().UTC(),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save daily log: %w", err)
	}

	metrics.LogsSaved.WithLabelValues(metrics.BoolLabel(saved.Completed)).Inc()
	log.Printf("DailyLogService: saved log %s for user %s on %s", saved.ID, userID, date)
	return saved, nil
}

// LikeDailyLog is not offered yet; likes are not persisted anywhere.
func (s *DailyLogService) LikeDailyLog(ctx context.Context, userID, logID string) error {
	return fmt.Errorf("%w: liking a daily log", ErrNotSupported)
}

// GetFeed lists logs that carry text, newest date first. An empty
// challengeID spans every challenge.
func (s *DailyLogService) GetFeed(ctx context.Context, challengeID string, limit int) ([]*dailylog.FeedItem, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	logs, err := s.store.DailyLogs().List(ctx, store.DailyLogFilter{
		ChallengeID:  challengeID,
		OnlyWithText: true,
		Limit:        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}

	users, err := s.store.Users().List(ctx, store.UserFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	names := make(map[string][2]string, len(users))
	for _, u := range users {
		names[u.ID] = [2]string{u.Name, u.Avatar}
	}

	challenges, err := s.store.Challenges().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	titles := make(map[string]string, len(challenges))
	for _, c := range challenges {
		titles[c.ID] = c.Title
	}

	items := make([]*dailylog.FeedItem, 0, len(logs))
	for _, l := range logs {
		author := names[l.UserID]
		items = append(items, &dailylog.FeedItem{
			DailyLog:       l,
			UserName:       author[0],
			UserAvatar:     author[1],
			ChallengeTitle: titles[l.ChallengeID],
		})
	}
	return items, nil
}

// GetJournal returns the user's own logs, optionally for one challenge.
func (s *DailyLogService) GetJournal(ctx context.Context, userID, challengeID string) ([]*dailylog.DailyLog, error) {
	logs, err := s.store.DailyLogs().List(ctx, store.DailyLogFilter{UserID: userID, ChallengeID: challengeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list journal: %w", err)
	}
	return logs, nil
}

// GetCalendar marks every day of the month on which the user logged, and
// whether any of that day's logs was completed.
func (s *DailyLogService) GetCalendar(ctx context.Context, userID string, year, month int) (*calendar.CalendarResponse, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, fmt.Errorf("%w: year %d month %d", ErrInvalidInput, year, month)
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, -1)

	logs, err := s.store.DailyLogs().List(ctx, store.DailyLogFilter{
		UserID: userID,
		From:   utils.FormatDate(startDate),
		To:     utils.FormatDate(endDate),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}

	hasLog := make(map[string]bool)
	completed := make(map[string]bool)
	for _, l := range logs {
		hasLog[l.Date] = true
		if l.Completed {
			completed[l.Date] = true
		}
	}

	today := utils.FormatDate(s.now())
	days := make([]*calendar.CalendarDay, 0, endDate.Day())
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		dateStr := utils.FormatDate(d)
		days = append(days, &calendar.CalendarDay{
			Date:      dateStr,
			HasLog:    hasLog[dateStr],
			Completed: completed[dateStr],
			IsToday:   dateStr == today,
		})
	}

	return &calendar.CalendarResponse{Year: year, Month: month, Days: days}, nil
}

// GetChallengeProgress reports completed days against the duration of every
// challenge the user joined, in join order. Logs outside the schedule still
// count as completed days, so the percentage is capped at 100.
func (s *DailyLogService) GetChallengeProgress(ctx context.Context, userID string) ([]*challenge.Progress, error) {
	u, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	logs, err := s.store.DailyLogs().List(ctx, store.DailyLogFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	today := utils.FormatDate(s.now())
	done := make(map[string]int)
	loggedToday := make(map[string]bool)
	for _, l := range logs {
		if l.Completed {
			done[l.ChallengeID]++
		}
		if l.Date == today {
			loggedToday[l.ChallengeID] = true
		}
	}

	progress := make([]*challenge.Progress, 0, len(u.JoinedChallenges))
	for _, cid := range u.JoinedChallenges {
		c, err := s.store.Challenges().Get(ctx, cid)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("failed to load challenge %s: %w", cid, err)
		}
		progress = append(progress, &challenge.Progress{
			Challenge:     c,
			CompletedDays: done[cid],
			Percentage:    min(utils.Percentage(done[cid], c.Duration), 100),
			LoggedToday:   loggedToday[cid],
		})
	}
	return progress, nil
}
