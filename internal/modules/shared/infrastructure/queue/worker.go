package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sentiment-api-app/internal/modules/shared/domain/repository"
	"sentiment-api-app/internal/modules/shared/infrastructure/metrics"
)

const (
	defaultPollTimeout = 2 * time.Second
	errorBackoff       = time.Second
)

// HandlerFunc ジョブ種別ごとの処理関数
type HandlerFunc func(ctx context.Context, job *repository.Job) error

// Worker キューからジョブを取り出して種別ごとのハンドラーに振り分ける
//
// 失敗したジョブはログとメトリクスに残すだけで再実行しない。
type Worker struct {
	queue       repository.JobQueue
	concurrency int
	handlers    map[string]HandlerFunc
	metrics     *metrics.Metrics
	pollTimeout time.Duration
}

// NewWorker 新しいWorkerを作成
func NewWorker(queue repository.JobQueue, concurrency int, m *metrics.Metrics) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		queue:       queue,
		concurrency: concurrency,
		handlers:    make(map[string]HandlerFunc),
		metrics:     m,
		pollTimeout: defaultPollTimeout,
	}
}

// Register ジョブ種別にハンドラーを登録（Run前に呼ぶこと）
func (w *Worker) Register(jobType string, handler HandlerFunc) {
	w.handlers[jobType] = handler
}

// Run ctxがキャンセルされるまでジョブを処理する
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.loop(ctx, id)
		}(i)
	}
	wg.Wait()
}

func (w *Worker) loop(ctx context.Context, id int) {
	for {
		if ctx.Err() != nil {
			return
		}

		job, err := w.queue.Dequeue(ctx, w.pollTimeout)
		if errors.Is(err, repository.ErrQueueEmpty) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("failed to dequeue job", "worker", id, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(errorBackoff):
			}
			continue
		}

		w.Process(ctx, job)
	}
}

// Process 1件のジョブを処理（ハンドラーのpanicも失敗として扱う）
func (w *Worker) Process(ctx context.Context, job *repository.Job) (err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job panicked: %v", rec)
		}
		w.metrics.RecordJob(job.Type, err)
		if err != nil {
			slog.Error("job failed", "type", job.Type, "error", err, "duration", time.Since(start))
			return
		}
		slog.Info("job done", "type", job.Type, "duration", time.Since(start))
	}()

	handler, ok := w.handlers[job.Type]
	if !ok {
		return fmt.Errorf("no handler registered for job type %q", job.Type)
	}
	return handler(ctx, job)
}
