package services

import (
	"context"
	"log"
	"sync"
	"time"

	"challengeTrackerAPI/internal/metrics"
	"challengeTrackerAPI/internal/store"
	"challengeTrackerAPI/internal/types/notification"
)

// PushNotificationProvider delivers a message to device tokens. FCMService
// implements it.
type PushNotificationProvider interface {
	SendPush(ctx context.Context, tokens []*notification.DeviceToken, title, body string, data map[string]any) error
}

// NotificationDispatcher fans queued pushes out to a fixed pool of workers.
type NotificationDispatcher struct {
	tokens       store.DeviceTokenStore
	pushProvider PushNotificationProvider
	workers      int
	jobQueue     chan *notification.Push
	queueTimeout time.Duration

	mu       sync.RWMutex
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewNotificationDispatcher(tokens store.DeviceTokenStore, workers int) *NotificationDispatcher {
	if workers <= 0 {
		workers = 5
	}
	d := &NotificationDispatcher{
		tokens:       tokens,
		workers:      workers,
		jobQueue:     make(chan *notification.Push, 100),
		queueTimeout: 5 * time.Second,
		done:         make(chan struct{}),
	}
	d.startWorkers()
	return d
}

func (d *NotificationDispatcher) SetPushProvider(provider PushNotificationProvider) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pushProvider = provider
}

func (d *NotificationDispatcher) provider() PushNotificationProvider {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pushProvider
}

func (d *NotificationDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case push := <-d.jobQueue:
			d.processJob(push)
		case <-d.done:
			d.drain()
			return
		}
	}
}

func (d *NotificationDispatcher) drain() {
	for {
		select {
		case push := <-d.jobQueue:
			d.processJob(push)
		default:
			return
		}
	}
}

func (d *NotificationDispatcher) processJob(push *notification.Push) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	provider := d.provider()
	if provider == nil {
		log.Printf("Dispatcher: no push provider, dropping %q for %d users", push.Title, len(push.UserIDs))
		metrics.PushesSent.WithLabelValues("skipped").Inc()
		return
	}

	tokens, err := d.tokens.ListByUsers(ctx, push.UserIDs)
	if err != nil {
		log.Printf("Dispatcher: failed to load device tokens: %v", err)
		metrics.PushesSent.WithLabelValues("failed").Inc()
		return
	}
	if len(tokens) == 0 {
		metrics.PushesSent.WithLabelValues("skipped").Inc()
		return
	}

	if err := provider.SendPush(ctx, tokens, push.Title, push.Body, push.Data); err != nil {
		log.Printf("Dispatcher: push %q failed: %v", push.Title, err)
		metrics.PushesSent.WithLabelValues("failed").Inc()
		return
	}
	metrics.PushesSent.WithLabelValues("sent").Inc()
}

// Dispatch queues push. It reports false when the dispatcher is stopped or
// the queue stayed full past the enqueue timeout. A blocked Dispatch holds no
// lock, so Stop and SetPushProvider never wait on it.
func (d *NotificationDispatcher) Dispatch(push *notification.Push) bool {
	select {
	case <-d.done:
		return false
	default:
	}

	timer := time.NewTimer(d.queueTimeout)
	defer timer.Stop()
	select {
	case d.jobQueue <- push:
		return true
	case <-d.done:
		return false
	case <-timer.C:
		log.Printf("Dispatcher: queue full, dropping %q", push.Title)
		return false
	}
}

// Stop wakes blocked senders, drains the queue and waits for the workers to
// finish.
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.done) })
	d.wg.Wait()
}
