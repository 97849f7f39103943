// Package notification pushes "asset scanned" events to watchers via web
// push. Fire-and-forget: failures are logged, never retried.
package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"asset-tracker-backend/internal/store"
)

// Sender defines the interface for delivering one web push message.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// scanEvent is the push payload watchers receive.
type scanEvent struct {
	Title    string `json:"title"`
	AssetID  int64  `json:"asset_id"`
	AssetTag string `json:"asset_tag"`
	Scanner  string `json:"scanner,omitempty"`
}

// WorkerPool fans scan notifications out to a fixed set of workers.
type WorkerPool struct {
	size    int
	jobs    chan Job
	store   store.Store
	webpush *webpush.Options
	sender  Sender
}

// Job identifies one scan worth announcing.
type Job struct {
	AssetID  int64
	AssetTag string
	Scanner  string
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size*4),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// SetSender swaps the delivery mechanism, for tests.
func (wp *WorkerPool) SetSender(s Sender) {
	wp.sender = s
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	for {
		select {
		case job := <-wp.jobs:
			wp.notifyWatchers(ctx, job)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a job without blocking the scan path. A full queue drops
// the notification; the audit record itself is already committed.
func (wp *WorkerPool) Dispatch(job Job) {
	select {
	case wp.jobs <- job:
	default:
		log.Printf("notification queue full, dropping event for asset %d", job.AssetID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

// notifyWatchers sends a push to every subscription watching the asset.
func (wp *WorkerPool) notifyWatchers(ctx context.Context, job Job) {
	subs, err := wp.store.WatchersOfAsset(ctx, job.AssetID)
	if err != nil {
		log.Printf("error fetching watchers for asset %d: %v", job.AssetID, err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(scanEvent{
		Title:    "Asset scanned",
		AssetID:  job.AssetID,
		AssetTag: job.AssetTag,
		Scanner:  job.Scanner,
	})
	if err != nil {
		log.Printf("error encoding scan event for asset %d: %v", job.AssetID, err)
		return
	}

	log.Printf("sending %d notifications for asset %d", len(subs), job.AssetID)
	for _, sub := range subs {
		resp, err := wp.sender.Send(payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys:     webpush.Keys{P256dh: sub.P256DH, Auth: sub.Auth},
		}, wp.webpush)
		if err != nil {
			log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
			continue
		}
		resp.Body.Close()

		// Gone endpoints are pruned so we stop pushing at them.
		if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
			if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
				log.Printf("error pruning dead subscription %s: %v", sub.Endpoint, err)
			}
		}
	}
}
