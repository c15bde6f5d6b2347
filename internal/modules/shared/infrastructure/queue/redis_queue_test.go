package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"sentiment-api-app/internal/modules/shared/domain/repository"
	"sentiment-api-app/internal/modules/shared/infrastructure/cache"
	"sentiment-api-app/internal/modules/shared/infrastructure/testcontainer"
)

func setupRedisQueue(t *testing.T) *RedisQueue {
	t.Helper()
	ctx := context.Background()

	redisContainer := testcontainer.StartRedis(ctx, t)
	client := cache.NewRedisClient(redisContainer.Config())
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisQueue(client, "test:jobs")
}

func TestRedisQueue_EnqueueDequeue(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	fixed := time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return fixed }

	if err := q.Enqueue(ctx, "analyze_review", map[string]int64{"review_id": 1}); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	if err := q.Enqueue(ctx, "analyze_review", map[string]int64{"review_id": 2}); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	n, err := q.Len(ctx)
	if err != nil {
		t.Fatalf("Len() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Len() = %v, want 2", n)
	}

	// 先入れ先出し
	for _, want := range []int64{1, 2} {
		job, err := q.Dequeue(ctx, time.Second)
		if err != nil {
			t.Fatalf("Dequeue() error = %v", err)
		}
		if job.Type != "analyze_review" {
			t.Errorf("Type = %v", job.Type)
		}
		if !job.EnqueuedAt.Equal(fixed) {
			t.Errorf("EnqueuedAt = %v, want %v", job.EnqueuedAt, fixed)
		}
		var payload map[string]int64
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload["review_id"] != want {
			t.Errorf("review_id = %v, want %v", payload["review_id"], want)
		}
	}
}

func TestRedisQueue_DequeueEmpty(t *testing.T) {
	q := setupRedisQueue(t)

	_, err := q.Dequeue(context.Background(), time.Second)
	if !errors.Is(err, repository.ErrQueueEmpty) {
		t.Errorf("Dequeue() error = %v, want ErrQueueEmpty", err)
	}
}

func TestRedisQueue_EnqueueInvalidPayload(t *testing.T) {
	q := NewRedisQueue(nil, "unused")

	if err := q.Enqueue(context.Background(), "bad", make(chan int)); err == nil {
		t.Error("Enqueue() expected error for unmarshalable payload")
	}
}
