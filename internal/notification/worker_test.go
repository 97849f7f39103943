package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"asset-tracker-backend/internal/db"
	"asset-tracker-backend/internal/model"
	"asset-tracker-backend/internal/store"
)

// mockSender is a mock implementation of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return store.NewGormStore(gormDB)
}

func pushResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, newTestStore(t), &webpush.Options{})

	wp.Dispatch(Job{AssetID: 123, AssetTag: "A123"})

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, int64(123), job.AssetID)
		assert.Equal(t, "A123", job.AssetTag)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_NotifiesWatchers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	asset := model.Asset{AssetTag: "A100", Name: "Laptop"}
	require.NoError(t, s.CreateAsset(ctx, &asset))
	sub := model.WatchSubscription{Endpoint: "https://example.com/push", P256DH: "p", Auth: "a"}
	require.NoError(t, s.SaveSubscription(ctx, &sub, []int64{asset.ID}))

	wp := NewWorkerPool(1, s, &webpush.Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	wp.SetSender(&mockSender{
		SendFunc: func(payload []byte, pushSub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			assert.Equal(t, "https://example.com/push", pushSub.Endpoint)
			assert.Equal(t, "p", pushSub.Keys.P256dh)

			var event map[string]any
			require.NoError(t, json.Unmarshal(payload, &event))
			assert.Equal(t, "A100", event["asset_tag"])
			assert.Equal(t, "bob", event["scanner"])
			return pushResponse(http.StatusCreated), nil
		},
	})

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(workerCtx)

	wp.Dispatch(Job{AssetID: asset.ID, AssetTag: asset.AssetTag, Scanner: "bob"})
	wg.Wait()
}

func TestWorkerPool_PrunesGoneSubscription(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	asset := model.Asset{AssetTag: "A200", Name: "Monitor"}
	require.NoError(t, s.CreateAsset(ctx, &asset))
	sub := model.WatchSubscription{Endpoint: "https://example.com/expired", P256DH: "p", Auth: "a"}
	require.NoError(t, s.SaveSubscription(ctx, &sub, []int64{asset.ID}))

	wp := NewWorkerPool(1, s, &webpush.Options{})
	wp.SetSender(&mockSender{
		SendFunc: func(payload []byte, pushSub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			return pushResponse(http.StatusGone), nil
		},
	})

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(workerCtx)

	wp.Dispatch(Job{AssetID: asset.ID, AssetTag: asset.AssetTag})

	require.Eventually(t, func() bool {
		watchers, err := s.WatchersOfAsset(ctx, asset.ID)
		return err == nil && len(watchers) == 0
	}, time.Second, 10*time.Millisecond, "a 410 response must prune the subscription")
}

func TestWorkerPool_NoWatchersNoSend(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	asset := model.Asset{AssetTag: "A300", Name: "Chair"}
	require.NoError(t, s.CreateAsset(ctx, &asset))

	var sent bool
	wp := NewWorkerPool(1, s, &webpush.Options{})
	wp.SetSender(&mockSender{
		SendFunc: func(payload []byte, pushSub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			sent = true
			return pushResponse(http.StatusCreated), nil
		},
	})

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(workerCtx)

	wp.Dispatch(Job{AssetID: asset.ID, AssetTag: asset.AssetTag})
	time.Sleep(100 * time.Millisecond)
	assert.False(t, sent)
}
