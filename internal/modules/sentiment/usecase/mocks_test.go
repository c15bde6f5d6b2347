package usecase

import (
	"context"
	"sync"
	"time"

	"sentiment-api-app/internal/modules/sentiment/domain"
	"sentiment-api-app/internal/modules/shared/domain/repository"
)

// MockClassifier モック推論リポジトリ
type MockClassifier struct {
	ClassifyOneFunc  func(ctx context.Context, text string) (*domain.SentimentResult, error)
	ClassifyManyFunc func(ctx context.Context, texts []string) ([]domain.ClassifiedItem, error)

	mu        sync.Mutex
	OneCalls  []string
	ManyCalls [][]string
}

func (m *MockClassifier) ClassifyOne(ctx context.Context, text string) (*domain.SentimentResult, error) {
	m.mu.Lock()
	m.OneCalls = append(m.OneCalls, text)
	m.mu.Unlock()
	if m.ClassifyOneFunc != nil {
		return m.ClassifyOneFunc(ctx, text)
	}
	return &domain.SentimentResult{Label: "positive", Confidence: 0.9}, nil
}

func (m *MockClassifier) ClassifyMany(ctx context.Context, texts []string) ([]domain.ClassifiedItem, error) {
	m.mu.Lock()
	m.ManyCalls = append(m.ManyCalls, append([]string(nil), texts...))
	m.mu.Unlock()
	if m.ClassifyManyFunc != nil {
		return m.ClassifyManyFunc(ctx, texts)
	}
	return echoItems(texts), nil
}

// echoItems 入力テキストごとにlabel=テキストの結果を返す
func echoItems(texts []string) []domain.ClassifiedItem {
	items := make([]domain.ClassifiedItem, len(texts))
	for i, text := range texts {
		items[i] = domain.ClassifiedItem{
			Text:            text,
			SentimentResult: domain.SentimentResult{Label: "label:" + text, Confidence: 0.5},
		}
	}
	return items
}

// MockCache モックキャッシュリポジトリ
type MockCache struct {
	SetFunc    func(ctx context.Context, key string, value []byte, expiration time.Duration) error
	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	DeleteFunc func(ctx context.Context, key string) error
	ExistsFunc func(ctx context.Context, key string) (bool, error)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil, nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *MockCache) Exists(ctx context.Context, key string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, key)
	}
	return false, nil
}

// MockQueue モックジョブキュー
type MockQueue struct {
	EnqueueFunc func(ctx context.Context, jobType string, payload any) error

	Enqueued []EnqueuedJob
}

// EnqueuedJob MockQueueに積まれたジョブ
type EnqueuedJob struct {
	Type    string
	Payload any
}

func (m *MockQueue) Enqueue(ctx context.Context, jobType string, payload any) error {
	if m.EnqueueFunc != nil {
		if err := m.EnqueueFunc(ctx, jobType, payload); err != nil {
			return err
		}
	}
	m.Enqueued = append(m.Enqueued, EnqueuedJob{Type: jobType, Payload: payload})
	return nil
}

func (m *MockQueue) Dequeue(ctx context.Context, timeout time.Duration) (*repository.Job, error) {
	return nil, repository.ErrQueueEmpty
}

// MockAnalyzer モック分析器
type MockAnalyzer struct {
	AnalyzeFunc      func(ctx context.Context, text string) (*domain.SentimentResult, error)
	AnalyzeBatchFunc func(ctx context.Context, texts []string) ([]domain.BatchItem, error)

	BatchCalls [][]string
}

func (m *MockAnalyzer) Analyze(ctx context.Context, text string) (*domain.SentimentResult, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, text)
	}
	return &domain.SentimentResult{Label: "positive", Confidence: 0.9}, nil
}

func (m *MockAnalyzer) AnalyzeBatch(ctx context.Context, texts []string) ([]domain.BatchItem, error) {
	m.BatchCalls = append(m.BatchCalls, texts)
	if m.AnalyzeBatchFunc != nil {
		return m.AnalyzeBatchFunc(ctx, texts)
	}
	items := make([]domain.BatchItem, len(texts))
	for i, text := range texts {
		items[i] = domain.BatchItem{Text: text, Label: "neutral"}
	}
	return items, nil
}

// MockFetcher モックSNS取得
type MockFetcher struct {
	RecentPostsFunc func(ctx context.Context, handle string, limit int) ([]string, error)
}

func (m *MockFetcher) RecentPosts(ctx context.Context, handle string, limit int) ([]string, error) {
	if m.RecentPostsFunc != nil {
		return m.RecentPostsFunc(ctx, handle, limit)
	}
	return nil, nil
}
