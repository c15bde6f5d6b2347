package domain

import "errors"

// ErrStatusNotFound リクエストIDに対応するステータスが無い（未登録または期限切れ）
var ErrStatusNotFound = errors.New("status not found")

// 非同期分析のステータス
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

// JobStatus 非同期分析の進捗
type JobStatus struct {
	Status string           `json:"status"`
	Result *SentimentResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}
