package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"

	"taxclarity/internal/apperr"
	"taxclarity/internal/logger"
	"taxclarity/internal/model"
	"taxclarity/internal/push"
	"taxclarity/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Reminder buckets, in days before the due date.
const (
	BucketToday = 0
	BucketSoon  = 3
	BucketWeek  = 7
)

var reminderBuckets = []int{BucketToday, BucketSoon, BucketWeek}

// --- DTOs ---

type ReminderSummary struct {
	UsersNotified     int `json:"users_notified"`
	NotificationsSent int `json:"notifications_sent"`
	ItemsScanned      int `json:"items_scanned"`
}

// ReminderMessage is the push copy for one item.
type ReminderMessage struct {
	Title string
	Body  string
}

// --- Interface ---

type ReminderService interface {
	Run(ctx context.Context) (ReminderSummary, error)
}

type reminderService struct {
	items         repository.ActionItemRepository
	devices       repository.DeviceRepository
	notifications repository.NotificationRepository
	sender        push.Sender
	clock         Clock
	concurrency   int
	log           *logger.Logger
}

func NewReminderService(
	items repository.ActionItemRepository,
	devices repository.DeviceRepository,
	notifications repository.NotificationRepository,
	sender push.Sender,
	clock Clock,
	concurrency int,
	log *logger.Logger,
) ReminderService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &reminderService{
		items:         items,
		devices:       devices,
		notifications: notifications,
		sender:        sender,
		clock:         clock,
		concurrency:   concurrency,
		log:           log.With("service", "ReminderService"),
	}
}

// --- Implementation ---

// Run scans incomplete items due today, in 3 days and in 7 days and pushes one
// notification per item to every active device of its owner. Only the initial
// scan is fatal; failures for one user or item are logged and skipped.
func (s *reminderService) Run(ctx context.Context) (ReminderSummary, error) {
	today := s.clock.Today()
	dates := make([]model.Date, 0, len(reminderBuckets))
	for _, d := range reminderBuckets {
		dates = append(dates, today.AddDays(d))
	}

	items, err := s.items.ListIncompleteDueOn(ctx, dates)
	if err != nil {
		return ReminderSummary{}, apperr.Storage("fetch due action items", err)
	}

	byUser := make(map[uuid.UUID][]model.UserActionItem)
	for _, it := range items {
		byUser[it.UserID] = append(byUser[it.UserID], it)
	}
	users := make([]uuid.UUID, 0, len(byUser))
	for id := range byUser {
		users = append(users, id)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].String() < users[j].String() })

	var notified, sent int64
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for _, userID := range users {
		userItems := byUser[userID]
		g.Go(func() error {
			n := s.notifyUser(ctx, userID, userItems, today)
			if n > 0 {
				atomic.AddInt64(&notified, 1)
				atomic.AddInt64(&sent, int64(n))
			}
			// Per-user failures never cancel the others.
			return nil
		})
	}
	_ = g.Wait()

	summary := ReminderSummary{
		UsersNotified:     int(notified),
		NotificationsSent: int(sent),
		ItemsScanned:      len(items),
	}
	s.log.Info("reminder run finished",
		"date", today.String(),
		"items_scanned", summary.ItemsScanned,
		"users", len(users),
		"users_notified", summary.UsersNotified,
		"notifications_sent", summary.NotificationsSent,
	)
	return summary, nil
}

// notifyUser returns how many notifications were dispatched for the user.
func (s *reminderService) notifyUser(ctx context.Context, userID uuid.UUID, items []model.UserActionItem, today model.Date) int {
	log := s.log.With("user_id", userID)

	devices, err := s.devices.ListActiveByUser(ctx, userID)
	if err != nil {
		log.Warn("failed to fetch devices, skipping user", "error", err)
		return 0
	}
	if len(devices) == 0 {
		log.Debug("no active devices, skipping user")
		return 0
	}
	playerIDs := make([]string, 0, len(devices))
	for _, d := range devices {
		playerIDs = append(playerIDs, d.PlayerID)
	}

	sent := 0
	for _, item := range items {
		if ctx.Err() != nil {
			return sent
		}
		msg, ok := ReminderFor(item, today)
		if !ok {
			continue
		}
		data := map[string]interface{}{
			"action_item_id": item.ID.String(),
			"type":           "reminder",
		}
		if _, err := s.sender.Send(ctx, push.Message{
			PlayerIDs: playerIDs,
			Title:     msg.Title,
			Body:      msg.Body,
			Data:      data,
		}); err != nil {
			log.Warn("push dispatch failed", "action_item_id", item.ID, "error", err)
			continue
		}
		sent++

		raw, _ := json.Marshal(data)
		itemID := item.ID
		if err := s.notifications.Record(ctx, &model.NotificationHistory{
			UserID:       userID,
			ActionItemID: &itemID,
			Title:        msg.Title,
			Body:         msg.Body,
			Status:       model.NotificationSent,
			Data:         raw,
		}); err != nil {
			log.Warn("failed to record notification history", "action_item_id", item.ID, "error", err)
		}
	}
	return sent
}

// ReminderFor frames the message by how far the item's due date is from today.
// Items outside the three buckets yield false.
func ReminderFor(item model.UserActionItem, today model.Date) (ReminderMessage, bool) {
	switch today.DaysUntil(item.DueDate) {
	case BucketToday:
		return ReminderMessage{
			Title: "Action Due Today!",
			Body:  fmt.Sprintf("\"%s\" is due today. Complete it to stay compliant.", item.Title),
		}, true
	case BucketSoon:
		return ReminderMessage{
			Title: "Action Due in 3 Days",
			Body:  fmt.Sprintf("\"%s\" is due in 3 days. Don't forget to complete it.", item.Title),
		}, true
	case BucketWeek:
		return ReminderMessage{
			Title: "Upcoming Action",
			Body:  fmt.Sprintf("\"%s\" is due in 7 days. Start planning now.", item.Title),
		}, true
	default:
		return ReminderMessage{}, false
	}
}
