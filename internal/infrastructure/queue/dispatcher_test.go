package queue

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
)

type recordingService struct {
	mu   sync.Mutex
	jobs []ports.NotificationJob
	fail map[string]bool // question IDs whose dispatch fails
}

func (s *recordingService) Dispatch(_ context.Context, job ports.NotificationJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	if s.fail[job.QuestionID] {
		return errors.New("store unavailable")
	}
	return nil
}

func (s *recordingService) List(context.Context, string) ([]*domain.Notification, error) {
	return nil, nil
}

func (s *recordingService) MarkRead(context.Context, string, string) (*domain.Notification, error) {
	return nil, nil
}

func (s *recordingService) MarkAllRead(context.Context, string) (int64, error) { return 0, nil }

func (s *recordingService) UnreadCount(context.Context, string) (int64, error) { return 0, nil }

func (s *recordingService) snapshot() []ports.NotificationJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.NotificationJob(nil), s.jobs...)
}

func TestDispatcher_ProcessesInOrderPerQuestion(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(4, 64, svc, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 20; i++ {
		d.Enqueue(ports.NotificationJob{QuestionID: "q1", Text: strconv.Itoa(i)})
	}
	require.NoError(t, d.Shutdown(context.Background()))

	jobs := svc.snapshot()
	require.Len(t, jobs, 20)
	for i, job := range jobs {
		assert.Equal(t, strconv.Itoa(i), job.Text)
	}
}

func TestDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	svc := &recordingService{fail: map[string]bool{"bad": true}}
	d := NewDispatcher(1, 8, svc, zerolog.Nop())
	d.Start(context.Background())

	d.Enqueue(ports.NotificationJob{QuestionID: "bad"})
	d.Enqueue(ports.NotificationJob{QuestionID: "good"})
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Len(t, svc.snapshot(), 2)
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(1, 2, svc, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		// Workers are not running, so only the buffer's worth is kept.
		for i := 0; i < 10; i++ {
			d.Enqueue(ports.NotificationJob{QuestionID: "q1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	d.Start(context.Background())
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Len(t, svc.snapshot(), 2)
}

func TestDispatcher_EnqueueAfterShutdownIsDropped(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(2, 4, svc, zerolog.Nop())
	d.Start(context.Background())
	require.NoError(t, d.Shutdown(context.Background()))

	assert.NotPanics(t, func() {
		d.Enqueue(ports.NotificationJob{QuestionID: "q1"})
	})
	require.NoError(t, d.Shutdown(context.Background()), "Shutdown is idempotent")
	assert.Empty(t, svc.snapshot())
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, 1, &recordingService{}, zerolog.Nop())

	idx := d.shardIndex("65f0c0ffee0000000000abcd")
	for i := 0; i < 5; i++ {
		assert.Equal(t, idx, d.shardIndex("65f0c0ffee0000000000abcd"))
	}
	assert.GreaterOrEqual(t, idx, 0)
	assert.Less(t, idx, 8)
}
