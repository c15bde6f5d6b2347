package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrQueueEmpty 待機時間内にジョブが届かなかった
var ErrQueueEmpty = errors.New("queue empty")

// Job キューに積まれるジョブの封筒
type Job struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// JobQueue ジョブキューのインターフェース
type JobQueue interface {
	// Enqueue payloadをJSONにしてジョブを追加
	Enqueue(ctx context.Context, jobType string, payload any) error

	// Dequeue ジョブを1件取り出す（timeout内に無ければErrQueueEmpty）
	Dequeue(ctx context.Context, timeout time.Duration) (*Job, error)
}
