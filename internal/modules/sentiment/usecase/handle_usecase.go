package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sentiment-api-app/internal/modules/sentiment/domain"
)

const (
	// DefaultHandleLimit 取得件数の既定値
	DefaultHandleLimit = 20
	// MaxHandleLimit 取得件数の上限
	MaxHandleLimit = 100
)

// BatchAnalyzer バッチ分析を行うもの
type BatchAnalyzer interface {
	AnalyzeBatch(ctx context.Context, texts []string) ([]domain.BatchItem, error)
}

// HandleUseCase SNSアカウントの投稿を分析するユースケース
type HandleUseCase struct {
	analyzer BatchAnalyzer
	fetcher  domain.SocialFetcher // nilなら常にサンプル投稿を使う
}

// NewHandleUseCase 新しいHandleUseCaseを作成
func NewHandleUseCase(analyzer BatchAnalyzer, fetcher domain.SocialFetcher) *HandleUseCase {
	return &HandleUseCase{
		analyzer: analyzer,
		fetcher:  fetcher,
	}
}

// AnalyzeHandle アカウントの最近の投稿を分析（取得できなければサンプル投稿）
func (uc *HandleUseCase) AnalyzeHandle(ctx context.Context, handle string, limit int) ([]domain.BatchItem, error) {
	handle = strings.TrimLeft(handle, "@")
	limit = ClampLimit(limit)

	var texts []string
	if uc.fetcher != nil {
		posts, err := uc.fetcher.RecentPosts(ctx, handle, limit)
		if err != nil {
			slog.Warn("falling back to sample posts", "handle", handle, "error", err)
		} else {
			texts = posts
		}
	}

	if len(texts) == 0 {
		texts = samplePosts(handle, limit)
	}

	items, err := uc.analyzer.AnalyzeBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze handle posts: %w", err)
	}
	return items, nil
}

// ClampLimit 取得件数を1..MaxHandleLimitに丸める
func ClampLimit(limit int) int {
	return max(1, min(MaxHandleLimit, limit))
}

func samplePosts(handle string, limit int) []string {
	texts := make([]string, limit)
	for i := range texts {
		texts[i] = fmt.Sprintf("%s sample post #%d", handle, i+1)
	}
	return texts
}
