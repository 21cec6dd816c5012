package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"dormwash/internal/domain"
)

// PushSender defines the interface for sending a web push notification.
type PushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of PushSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// PushJob names the user to notify and the message to deliver.
type PushJob struct {
	UserID int64
	Title  string
	Body   string
}

// WorkerPool manages a pool of workers for sending push notifications.
type WorkerPool struct {
	size    int
	jobs    chan PushJob
	db      *gorm.DB
	webpush *webpush.Options
	sender  PushSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan PushJob, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// SetSender overrides the sender, for tests.
func (wp *WorkerPool) SetSender(s PushSender) { wp.sender = s }

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("push worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.sendForUser(ctx, job)
		case <-ctx.Done():
			log.Printf("push worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a job without blocking the caller; jobs are dropped when the
// queue is full rather than stalling a request.
func (wp *WorkerPool) Dispatch(job PushJob) {
	select {
	case wp.jobs <- job:
	default:
		log.Printf("push queue full, dropping notification for user %d", job.UserID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan PushJob {
	return wp.jobs
}

func (wp *WorkerPool) sendForUser(ctx context.Context, job PushJob) {
	var subscriptions []domain.PushSubscription
	err := wp.db.WithContext(ctx).
		Where("user_id = ?", job.UserID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("error fetching subscriptions for user %d: %v", job.UserID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(map[string]string{"title": job.Title, "body": job.Body})
	if err != nil {
		log.Printf("error marshalling push payload: %v", err)
		return
	}

	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub domain.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Gone/NotFound means the browser dropped the subscription.
	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		if err := wp.db.WithContext(ctx).Where("endpoint = ?", sub.Endpoint).Delete(&domain.PushSubscription{}).Error; err != nil {
			log.Printf("error pruning stale subscription %s: %v", sub.Endpoint, err)
		}
	}
}
