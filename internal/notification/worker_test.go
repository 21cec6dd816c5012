package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"dormwash/internal/domain"
)

type fakeSender struct {
	mu     sync.Mutex
	sent   []string
	status int
}

func (f *fakeSender) Send(payload []byte, sub *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sub.Endpoint)
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func (f *fakeSender) endpoints() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	copy(out, f.sent)
	return out
}

func setupPushDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:push_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&domain.PushSubscription{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestWorkerPool_SendsToAllUserSubscriptions(t *testing.T) {
	db := setupPushDB(t)
	db.Create(&domain.PushSubscription{Endpoint: "https://push.example/a", P256DH: "p", Auth: "a", UserID: 42})
	db.Create(&domain.PushSubscription{Endpoint: "https://push.example/b", P256DH: "p", Auth: "a", UserID: 42})
	db.Create(&domain.PushSubscription{Endpoint: "https://push.example/c", P256DH: "p", Auth: "a", UserID: 7})

	sender := &fakeSender{status: http.StatusCreated}
	pool := NewWorkerPool(2, db, &webpush.Options{})
	pool.SetSender(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	pool.Dispatch(PushJob{UserID: 42, Title: "Laundry done", Body: "collect your clothes"})

	waitFor(t, func() bool { return len(sender.endpoints()) == 2 })
	assert.ElementsMatch(t, []string{"https://push.example/a", "https://push.example/b"}, sender.endpoints())
}

func TestWorkerPool_PrunesGoneSubscriptions(t *testing.T) {
	db := setupPushDB(t)
	db.Create(&domain.PushSubscription{Endpoint: "https://push.example/stale", P256DH: "p", Auth: "a", UserID: 42})

	sender := &fakeSender{status: http.StatusGone}
	pool := NewWorkerPool(1, db, &webpush.Options{})
	pool.SetSender(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	pool.Dispatch(PushJob{UserID: 42, Title: "x", Body: "y"})

	waitFor(t, func() bool {
		var cnt int64
		db.Model(&domain.PushSubscription{}).Count(&cnt)
		return cnt == 0
	})
}

func TestWorkerPool_DispatchNeverBlocks(t *testing.T) {
	db := setupPushDB(t)
	pool := NewWorkerPool(1, db, &webpush.Options{})
	// No workers started: the queue fills and further jobs are dropped.

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			pool.Dispatch(PushJob{UserID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
}

func TestWorkerPool_NoSubscriptionsIsANoop(t *testing.T) {
	db := setupPushDB(t)
	sender := &fakeSender{status: http.StatusCreated}
	pool := NewWorkerPool(1, db, &webpush.Options{})
	pool.SetSender(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	pool.Dispatch(PushJob{UserID: 999, Title: "x", Body: "y"})

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, sender.endpoints())
}
