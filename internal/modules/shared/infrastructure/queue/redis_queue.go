package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sentiment-api-app/internal/modules/shared/domain/repository"
)

// RedisQueue Redisリストを使ったジョブキュー（LPUSHで追加、BRPOPで取り出し）
type RedisQueue struct {
	client *redis.Client
	name   string
	now    func() time.Time
}

// NewRedisQueue 新しいRedisQueueを作成
func NewRedisQueue(client *redis.Client, name string) *RedisQueue {
	return &RedisQueue{
		client: client,
		name:   name,
		now:    time.Now,
	}
}

// Enqueue ジョブを追加
func (q *RedisQueue) Enqueue(ctx context.Context, jobType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal job payload: %w", err)
	}

	data, err := json.Marshal(repository.Job{
		Type:       jobType,
		Payload:    raw,
		EnqueuedAt: q.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := q.client.LPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// Dequeue ジョブを1件取り出す
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*repository.Job, error) {
	res, err := q.client.BRPop(ctx, timeout, q.name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrQueueEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}

	// res[0]はキー名、res[1]が値
	var job repository.Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	return &job, nil
}

// Len キューに残っているジョブ数
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.name).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return n, nil
}
