package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"sentiment-api-app/internal/modules/sentiment/domain"
	"sentiment-api-app/internal/modules/shared/domain/repository"
	"sentiment-api-app/internal/modules/shared/infrastructure/metrics"
)

// SentimentUseCase 感情分析のユースケース（キャッシュ優先で推論サービスを呼び出す）
type SentimentUseCase struct {
	classifier domain.ClassifierRepository
	cache      repository.CacheRepository
	ttl        time.Duration
	metrics    *metrics.Metrics
}

// NewSentimentUseCase 新しいSentimentUseCaseを作成
func NewSentimentUseCase(
	classifier domain.ClassifierRepository,
	cache repository.CacheRepository,
	ttl time.Duration,
	m *metrics.Metrics,
) *SentimentUseCase {
	return &SentimentUseCase{
		classifier: classifier,
		cache:      cache,
		ttl:        ttl,
		metrics:    m,
	}
}

// Analyze 1件のテキストを分析
func (uc *SentimentUseCase) Analyze(ctx context.Context, text string) (*domain.SentimentResult, error) {
	normalized := domain.Normalize(text)
	if normalized == "" {
		result := domain.UnknownResult()
		return &result, nil
	}

	key := domain.CacheKey(normalized)
	cached, hit, err := uc.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if hit {
		return cached, nil
	}

	result, err := uc.classifier.ClassifyOne(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze text: %w", err)
	}

	core := result.Core()
	if err := uc.store(ctx, key, core); err != nil {
		return nil, err
	}
	return &core, nil
}

// AnalyzeBatch 複数テキストを入力順に分析
//
// 空のテキストは結果から除外される。キャッシュミス分のみを1回のバッチ呼び出しで推論する。
func (uc *SentimentUseCase) AnalyzeBatch(ctx context.Context, texts []string) ([]domain.BatchItem, error) {
	resolved := make(map[int]domain.BatchItem, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		normalized := domain.Normalize(text)
		if normalized == "" {
			continue
		}

		cached, hit, err := uc.lookup(ctx, domain.CacheKey(normalized))
		if err != nil {
			return nil, err
		}
		if hit {
			resolved[i] = cached.WithText(normalized)
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, normalized)
	}

	if len(missIdx) > 0 {
		items, err := uc.classifier.ClassifyMany(ctx, missTexts)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze batch: %w", err)
		}

		queues := newResultQueues(items)
		fetched := make(map[int]domain.SentimentResult, len(missIdx))
		answered := make(map[string]bool, len(missIdx))
		fallback := make(map[int]bool)
		for n, i := range missIdx {
			result, ok := queues.pop(missTexts[n])
			if ok {
				answered[domain.CacheKey(missTexts[n])] = true
			} else {
				result = domain.UnknownResult()
				fallback[i] = true
			}
			fetched[i] = result
		}

		// 応答全体の照合が終わってからキャッシュに書き込む
		for n, i := range missIdx {
			key := domain.CacheKey(missTexts[n])
			// 応答不足によるunknownは、同じキーに推論結果があれば保存しない
			if !fallback[i] || !answered[key] {
				if err := uc.store(ctx, key, fetched[i].Core()); err != nil {
					return nil, err
				}
			}
			resolved[i] = fetched[i].WithText(missTexts[n])
		}
	}

	indexes := make([]int, 0, len(resolved))
	for i := range resolved {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	out := make([]domain.BatchItem, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, resolved[i])
	}
	return out, nil
}

// lookup キャッシュを参照（破損した値はミスとして扱う）
func (uc *SentimentUseCase) lookup(ctx context.Context, key string) (*domain.SentimentResult, bool, error) {
	data, err := uc.cache.Get(ctx, key)
	if errors.Is(err, repository.ErrCacheMiss) {
		uc.metrics.RecordCacheLookup(false)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read sentiment cache: %w", err)
	}

	var result domain.SentimentResult
	if err := json.Unmarshal(data, &result); err != nil {
		slog.Warn("discarding corrupt sentiment cache entry", "key", key, "error", err)
		uc.metrics.RecordCacheLookup(false)
		return nil, false, nil
	}

	uc.metrics.RecordCacheLookup(true)
	core := result.Core()
	return &core, true, nil
}

// store ラベルと確信度のみをキャッシュに保存
func (uc *SentimentUseCase) store(ctx context.Context, key string, result domain.SentimentResult) error {
	data, err := json.Marshal(result.Core())
	if err != nil {
		return fmt.Errorf("failed to marshal sentiment result: %w", err)
	}
	if err := uc.cache.Set(ctx, key, data, uc.ttl); err != nil {
		return fmt.Errorf("failed to write sentiment cache: %w", err)
	}
	return nil
}
