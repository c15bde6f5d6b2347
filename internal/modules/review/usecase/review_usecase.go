package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"sentiment-api-app/internal/modules/review/domain"
	sentimentDomain "sentiment-api-app/internal/modules/sentiment/domain"
	"sentiment-api-app/internal/modules/shared/domain/repository"
	"sentiment-api-app/internal/modules/shared/infrastructure/csvfile"
)

const (
	// JobTypeAnalyzeReview レビュー分析ジョブ
	JobTypeAnalyzeReview = "analyze_review"

	// ProductAggregateLimit 商品別集計の最大件数
	ProductAggregateLimit = 50
)

// AnalyzeReviewPayload レビュー分析ジョブの内容
type AnalyzeReviewPayload struct {
	ReviewID int64 `json:"review_id"`
}

// ImportOptions CSV取り込みの設定
type ImportOptions struct {
	HasHeader     bool
	ProductColumn string
	RatingColumn  string
	TextColumn    string
	Queue         bool // 作成したレビューの分析ジョブを登録するか
}

// DefaultImportOptions 既定の取り込み設定
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		HasHeader:     true,
		ProductColumn: "product",
		RatingColumn:  "rating",
		TextColumn:    "text",
		Queue:         true,
	}
}

// ImportResult CSV取り込みの結果
type ImportResult struct {
	Created int `json:"created"`
	Queued  int `json:"queued"`
	Errors  int `json:"errors"`
}

// Aggregates レビュー集計
type Aggregates struct {
	ByProduct []domain.ProductAggregate `json:"by_product"`
	ByRating  []domain.RatingAggregate  `json:"by_rating"`
}

// Analyzer 単体分析を行うもの
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*sentimentDomain.SentimentResult, error)
}

// ReviewUseCase レビューのユースケース
type ReviewUseCase struct {
	reviewRepo domain.ReviewRepository
	analyzer   Analyzer
	queue      repository.JobQueue
	now        func() time.Time
}

// NewReviewUseCase 新しいReviewUseCaseを作成
func NewReviewUseCase(reviewRepo domain.ReviewRepository, analyzer Analyzer, queue repository.JobQueue) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo: reviewRepo,
		analyzer:   analyzer,
		queue:      queue,
		now:        time.Now,
	}
}

// ImportCSV CSVからレビューを取り込む
//
// 商品名または本文が空の行、保存に失敗した行はエラー件数に数えて処理を続ける。
func (uc *ReviewUseCase) ImportCSV(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	rows, err := csvfile.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// 列位置（ヘッダーなしは 商品, 評価, 本文 の順）
	productIdx, ratingIdx, textIdx := 0, 1, 2
	if opts.HasHeader {
		if len(rows) == 0 {
			return &ImportResult{}, nil
		}
		header := rows[0]
		rows = rows[1:]
		productIdx = csvfile.ColumnIndex(header, opts.ProductColumn)
		ratingIdx = csvfile.ColumnIndex(header, opts.RatingColumn)
		textIdx = csvfile.ColumnIndex(header, opts.TextColumn)
	}

	result := &ImportResult{}
	for _, row := range rows {
		product, _ := csvfile.Cell(row, productIdx)
		text, _ := csvfile.Cell(row, textIdx)
		if strings.TrimSpace(product) == "" || strings.TrimSpace(text) == "" {
			result.Errors++
			continue
		}

		review := domain.NewReview(product, parseRating(row, ratingIdx), text, uc.now())
		if err := uc.reviewRepo.Create(ctx, review); err != nil {
			slog.Warn("failed to import review row", "product", review.Product, "error", err)
			result.Errors++
			continue
		}
		result.Created++

		if !opts.Queue {
			continue
		}
		if err := uc.queue.Enqueue(ctx, JobTypeAnalyzeReview, AnalyzeReviewPayload{ReviewID: review.ID}); err != nil {
			slog.Warn("failed to enqueue review analysis", "review_id", review.ID, "error", err)
			result.Errors++
			continue
		}
		result.Queued++
	}

	return result, nil
}

// AnalyzeReview レビュー本文を分析して結果を保存（存在しないレビューは何もしない）
func (uc *ReviewUseCase) AnalyzeReview(ctx context.Context, id int64) error {
	review, err := uc.reviewRepo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrReviewNotFound) {
		slog.Info("skipping analysis of missing review", "review_id", id)
		return nil
	}
	if err != nil {
		return err
	}

	result, err := uc.analyzer.Analyze(ctx, review.Text)
	if err != nil {
		return fmt.Errorf("failed to analyze review %d: %w", id, err)
	}

	return uc.reviewRepo.UpdateSentiment(ctx, id, domain.Sentiment{
		Label:             result.Label,
		Confidence:        result.Confidence,
		EmotionLabel:      result.EmotionLabel,
		EmotionConfidence: result.EmotionConfidence,
		AnalyzedAt:        uc.now(),
	})
}

// HandleJob キューから取り出したレビュー分析ジョブを処理
func (uc *ReviewUseCase) HandleJob(ctx context.Context, job *repository.Job) error {
	var payload AnalyzeReviewPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to decode review job: %w", err)
	}
	return uc.AnalyzeReview(ctx, payload.ReviewID)
}

// Aggregates 商品別・評価別の集計を取得
func (uc *ReviewUseCase) Aggregates(ctx context.Context) (*Aggregates, error) {
	byProduct, err := uc.reviewRepo.AggregateByProduct(ctx, ProductAggregateLimit)
	if err != nil {
		return nil, err
	}

	byRating, err := uc.reviewRepo.AggregateByRating(ctx)
	if err != nil {
		return nil, err
	}

	return &Aggregates{ByProduct: byProduct, ByRating: byRating}, nil
}

// parseRating 評価列を数値に変換（空または数値でなければnil）
func parseRating(row []string, i int) *int {
	cell, ok := csvfile.Cell(row, i)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil {
		return nil
	}
	return &v
}
