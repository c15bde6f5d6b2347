package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sentiment-api-app/internal/modules/sentiment/domain"
	"sentiment-api-app/internal/modules/shared/domain/repository"
)

const (
	// JobTypeAnalyzeSentiment 非同期の単体分析ジョブ
	JobTypeAnalyzeSentiment = "analyze_sentiment"

	statusKeyPrefix = "sentiment:"
	queuedTTL       = 10 * time.Minute
)

// AnalyzeJobPayload 単体分析ジョブの内容
type AnalyzeJobPayload struct {
	RequestID string `json:"request_id"`
	Text      string `json:"text"`
}

// Analyzer 単体分析を行うもの
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*domain.SentimentResult, error)
}

// JobUseCase 非同期分析のユースケース
type JobUseCase struct {
	analyzer  Analyzer
	cache     repository.CacheRepository
	queue     repository.JobQueue
	statusTTL time.Duration
	newID     func() string
}

// NewJobUseCase 新しいJobUseCaseを作成
func NewJobUseCase(analyzer Analyzer, cache repository.CacheRepository, queue repository.JobQueue, statusTTL time.Duration) *JobUseCase {
	return &JobUseCase{
		analyzer:  analyzer,
		cache:     cache,
		queue:     queue,
		statusTTL: statusTTL,
		newID:     uuid.NewString,
	}
}

// Submit 分析ジョブを登録してリクエストIDを返す
func (uc *JobUseCase) Submit(ctx context.Context, text string) (string, error) {
	requestID := uc.newID()

	if err := uc.putStatus(ctx, requestID, domain.JobStatus{Status: domain.StatusQueued}, queuedTTL); err != nil {
		return "", err
	}

	payload := AnalyzeJobPayload{RequestID: requestID, Text: text}
	if err := uc.queue.Enqueue(ctx, JobTypeAnalyzeSentiment, payload); err != nil {
		return "", fmt.Errorf("failed to enqueue analyze job: %w", err)
	}

	return requestID, nil
}

// Handle キューから取り出した分析ジョブを処理
func (uc *JobUseCase) Handle(ctx context.Context, job *repository.Job) error {
	var payload AnalyzeJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to decode analyze job: %w", err)
	}

	if err := uc.putStatus(ctx, payload.RequestID, domain.JobStatus{Status: domain.StatusProcessing}, uc.statusTTL); err != nil {
		return err
	}

	result, err := uc.analyzer.Analyze(ctx, payload.Text)
	if err != nil {
		failed := domain.JobStatus{Status: domain.StatusFailed, Error: err.Error()}
		if putErr := uc.putStatus(ctx, payload.RequestID, failed, uc.statusTTL); putErr != nil {
			return errors.Join(err, putErr)
		}
		return err
	}

	return uc.putStatus(ctx, payload.RequestID, domain.JobStatus{Status: domain.StatusDone, Result: result}, uc.statusTTL)
}

// Status リクエストIDの進捗を取得
func (uc *JobUseCase) Status(ctx context.Context, requestID string) (*domain.JobStatus, error) {
	data, err := uc.cache.Get(ctx, statusKeyPrefix+requestID)
	if errors.Is(err, repository.ErrCacheMiss) {
		return nil, domain.ErrStatusNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job status: %w", err)
	}

	var status domain.JobStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to decode job status: %w", err)
	}
	return &status, nil
}

func (uc *JobUseCase) putStatus(ctx context.Context, requestID string, status domain.JobStatus, ttl time.Duration) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal job status: %w", err)
	}
	if err := uc.cache.Set(ctx, statusKeyPrefix+requestID, data, ttl); err != nil {
		return fmt.Errorf("failed to write job status: %w", err)
	}
	return nil
}
