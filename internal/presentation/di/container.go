package di

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"sentiment-api-app/internal/config"
	reviewDomain "sentiment-api-app/internal/modules/review/domain"
	reviewHandler "sentiment-api-app/internal/modules/review/presentation/handler"
	reviewUsecase "sentiment-api-app/internal/modules/review/usecase"
	sentimentDomain "sentiment-api-app/internal/modules/sentiment/domain"
	sentimentHandler "sentiment-api-app/internal/modules/sentiment/presentation/handler"
	sentimentUsecase "sentiment-api-app/internal/modules/sentiment/usecase"
	"sentiment-api-app/internal/modules/shared/domain/repository"
	sharedCache "sentiment-api-app/internal/modules/shared/infrastructure/cache"
	sharedDB "sentiment-api-app/internal/modules/shared/infrastructure/database"
	"sentiment-api-app/internal/modules/shared/infrastructure/metrics"
	"sentiment-api-app/internal/modules/shared/infrastructure/ml"
	"sentiment-api-app/internal/modules/shared/infrastructure/queue"
	"sentiment-api-app/internal/modules/shared/infrastructure/social"
	httpHandler "sentiment-api-app/internal/presentation/http/handler"
)

// Deps 外部リソースに依存するコンポーネント（テストでは差し替える）
type Deps struct {
	Cache      repository.CacheRepository
	Queue      repository.JobQueue
	Reviews    reviewDomain.ReviewRepository
	Classifier sentimentDomain.ClassifierRepository
	// Fetcher nilならハンドル分析はサンプル投稿を使う
	Fetcher sentimentDomain.SocialFetcher
	Metrics *metrics.Metrics
	Checks  map[string]httpHandler.Pinger
}

// Container DIコンテナ
type Container struct {
	cfg     *config.Config
	metrics *metrics.Metrics

	// Shared Infrastructure
	cacheRepo *sharedCache.RedisRepository
	db        *bun.DB
	reviewDB  *sharedDB.BunReviewRepository
	worker    *queue.Worker

	// Sentiment Module
	sentimentUseCase *sentimentUsecase.SentimentUseCase
	jobUseCase       *sentimentUsecase.JobUseCase
	handleUseCase    *sentimentUsecase.HandleUseCase
	sentimentHandler *sentimentHandler.SentimentHandler

	// Review Module
	reviewUseCase *reviewUsecase.ReviewUseCase
	reviewHandler *reviewHandler.ReviewHandler

	healthHandler *httpHandler.HealthHandler
}

// NewContainer 設定から実リソースに接続してContainerを作成
func NewContainer(cfg *config.Config) (*Container, error) {
	m := metrics.New()

	// Shared Infrastructure: Cache Repository
	cacheRepo, err := sharedCache.NewRedisRepository(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache repository: %w", err)
	}

	// Shared Infrastructure: Review Repository
	db, err := sharedDB.NewDB(&cfg.MySQL)
	if err != nil {
		_ = cacheRepo.Close()
		return nil, fmt.Errorf("failed to initialize review repository: %w", err)
	}
	reviewDB := sharedDB.NewBunReviewRepositoryWithDB(db)

	deps := Deps{
		Cache:      cacheRepo,
		Queue:      queue.NewRedisQueue(cacheRepo.Client(), cfg.Queue.Name),
		Reviews:    reviewDB,
		Classifier: ml.NewMLRepository(&cfg.ML, m),
		Metrics:    m,
		Checks: map[string]httpHandler.Pinger{
			"redis": cacheRepo,
			"mysql": httpHandler.PingerFunc(db.PingContext),
		},
	}
	// 型付きnilをインターフェースに入れない
	if tc := social.NewTwitterClient(&cfg.Twitter, cfg.ML.Timeout()); tc != nil {
		deps.Fetcher = tc
	}

	container := NewContainerWithDeps(cfg, deps)
	container.cacheRepo = cacheRepo
	container.db = db
	container.reviewDB = reviewDB
	return container, nil
}

// NewContainerWithDeps 依存コンポーネントを受け取ってContainerを組み立てる
func NewContainerWithDeps(cfg *config.Config, deps Deps) *Container {
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}

	container := &Container{cfg: cfg, metrics: m}

	// Sentiment Module: UseCase
	container.sentimentUseCase = sentimentUsecase.NewSentimentUseCase(deps.Classifier, deps.Cache, cfg.ML.CacheTTL(), m)
	container.jobUseCase = sentimentUsecase.NewJobUseCase(container.sentimentUseCase, deps.Cache, deps.Queue, cfg.Queue.StatusTTL())
	container.handleUseCase = sentimentUsecase.NewHandleUseCase(container.sentimentUseCase, deps.Fetcher)

	// Sentiment Module: Handler
	container.sentimentHandler = sentimentHandler.NewSentimentHandler(
		container.sentimentUseCase,
		container.jobUseCase,
		container.handleUseCase,
	)

	// Review Module
	container.reviewUseCase = reviewUsecase.NewReviewUseCase(deps.Reviews, container.sentimentUseCase, deps.Queue)
	container.reviewHandler = reviewHandler.NewReviewHandler(container.reviewUseCase)

	container.healthHandler = httpHandler.NewHealthHandler(deps.Checks)

	// Background Worker
	worker := queue.NewWorker(deps.Queue, cfg.Queue.Workers, m)
	worker.Register(sentimentUsecase.JobTypeAnalyzeSentiment, container.jobUseCase.Handle)
	worker.Register(reviewUsecase.JobTypeAnalyzeReview, container.reviewUseCase.HandleJob)
	container.worker = worker

	return container
}

// Migrate reviewsテーブルを作成（DB未接続なら何もしない）
func (c *Container) Migrate(ctx context.Context) error {
	if c.reviewDB == nil {
		return nil
	}
	if err := c.reviewDB.CreateTable(ctx); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// SentimentHandler 感情分析APIハンドラーを取得
func (c *Container) SentimentHandler() *sentimentHandler.SentimentHandler {
	return c.sentimentHandler
}

// ReviewHandler レビューAPIハンドラーを取得
func (c *Container) ReviewHandler() *reviewHandler.ReviewHandler {
	return c.reviewHandler
}

// HealthHandler ヘルスチェックハンドラーを取得
func (c *Container) HealthHandler() *httpHandler.HealthHandler {
	return c.healthHandler
}

// Metrics メトリクスを取得
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// Worker バックグラウンドワーカーを取得
func (c *Container) Worker() *queue.Worker {
	return c.worker
}

// Close リソースをクローズ
func (c *Container) Close() error {
	if c.cacheRepo != nil {
		if err := c.cacheRepo.Close(); err != nil {
			return fmt.Errorf("failed to close cache repository: %w", err)
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("failed to close review repository: %w", err)
		}
	}

	return nil
}
