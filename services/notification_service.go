package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"challengeTrackerAPI/internal/store"
	"challengeTrackerAPI/internal/types/challenge"
	"challengeTrackerAPI/internal/types/notification"
	"challengeTrackerAPI/internal/types/user"
	"challengeTrackerAPI/utils"
)

type messageTemplate struct {
	Title string
	Body  string
}

var (
	newChallengeTemplate = messageTemplate{
		Title: "New challenge: {{title}}",
		Body:  "{{title}} starts on {{startDate}}. Join now and build your streak.",
	}
	dailyReminderTemplate = messageTemplate{
		Title: "Don't break your streak",
		Body:  "You haven't logged today for {{challenge}} yet.",
	}
)

var validPlatforms = map[string]bool{"ios": true, "android": true, "web": true}

type NotificationService struct {
	store      store.Store
	dispatcher *NotificationDispatcher
	now        func() time.Time
}

func NewNotificationService(st store.Store) *NotificationService {
	return &NotificationService{
		store:      st,
		dispatcher: NewNotificationDispatcher(st.DeviceTokens(), 5),
		now:        time.Now,
	}
}

func (s *NotificationService) SetPushProvider(provider PushNotificationProvider) {
	s.dispatcher.SetPushProvider(provider)
}

func (s *NotificationService) RegisterDevice(ctx context.Context, userID string, req *notification.RegisterDeviceRequest) error {
	token := strings.TrimSpace(req.Token)
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if token == "" || !validPlatforms[platform] {
		return fmt.Errorf("%w: token and platform (ios, android, web) are required", ErrInvalidInput)
	}

	err := s.store.DeviceTokens().Save(ctx, &notification.DeviceToken{
		UserID:    userID,
		Token:     token,
		Platform:  platform,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	return nil
}

// NotifyNewChallenge tells every member about a freshly created challenge.
func (s *NotificationService) NotifyNewChallenge(ctx context.Context, c *challenge.Challenge) {
	members, err := s.store.Users().List(ctx, store.UserFilter{Role: user.RoleMember})
	if err != nil {
		log.Printf("NotificationService: failed to list members: %v", err)
		return
	}
	if len(members) == 0 {
		return
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}

	data := map[string]any{"title": c.Title, "startDate": c.StartDate, "challengeId": c.ID}
	s.dispatcher.Dispatch(&notification.Push{
		UserIDs: ids,
		Title:   renderTemplate(newChallengeTemplate.Title, data),
		Body:    renderTemplate(newChallengeTemplate.Body, data),
		Data:    map[string]any{"type": "new_challenge", "challengeId": c.ID},
	})
}

// SendDailyReminders nudges members who joined a running challenge and have
// not logged for it today. It returns the number of reminders queued.
func (s *NotificationService) SendDailyReminders(ctx context.Context) (int, error) {
	today := utils.FormatDate(s.now())

	challenges, err := s.store.Challenges().List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list challenges: %w", err)
	}
	running := make(map[string]*challenge.Challenge)
	for _, c := range challenges {
		if c.StartDate <= today && today <= c.EndDate {
			running[c.ID] = c
		}
	}
	if len(running) == 0 {
		return 0, nil
	}

	members, err := s.store.Users().List(ctx, store.UserFilter{Role: user.RoleMember})
	if err != nil {
		return 0, fmt.Errorf("failed to list members: %w", err)
	}

	logs, err := s.store.DailyLogs().List(ctx, store.DailyLogFilter{From: today, To: today})
	if err != nil {
		return 0, fmt.Errorf("failed to list today's logs: %w", err)
	}
	logged := make(map[string]bool, len(logs))
	for _, l := range logs {
		logged[l.UserID+"/"+l.ChallengeID] = true
	}

	queued := 0
	for _, m := range members {
		for _, cid := range m.JoinedChallenges {
			c, ok := running[cid]
			if !ok || logged[m.ID+"/"+cid] {
				continue
			}
			data := map[string]any{"challenge": c.Title}
			if s.dispatcher.Dispatch(&notification.Push{
				UserIDs: []string{m.ID},
				Title:   renderTemplate(dailyReminderTemplate.Title, data),
				Body:    renderTemplate(dailyReminderTemplate.Body, data),
				Data:    map[string]any{"type": "daily_reminder", "challengeId": cid, "date": today},
			}) {
				queued++
			}
		}
	}

	log.Printf("NotificationService: queued %d daily reminders for %s", queued, today)
	return queued, nil
}

// Stop waits for queued pushes to be delivered.
func (s *NotificationService) Stop() {
	s.dispatcher.Stop()
}

func renderTemplate(template string, data map[string]any) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, "{{"+key+"}}", fmt.Sprintf("%v", value))
	}
	return result
}

// isNotFound is shared by services that treat a missing row as a silent no-op.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
