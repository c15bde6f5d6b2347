package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"sentiment-api-app/internal/modules/sentiment/domain"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1},
		{-5, 1},
		{1, 1},
		{20, 20},
		{100, 100},
		{101, 100},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHandleUseCase_AnalyzeHandle(t *testing.T) {
	t.Run("正常系: 取得した投稿を分析", func(t *testing.T) {
		analyzer := &MockAnalyzer{}
		fetcher := &MockFetcher{
			RecentPostsFunc: func(ctx context.Context, handle string, limit int) ([]string, error) {
				if handle != "gopher" || limit != 5 {
					t.Errorf("RecentPosts(%v, %v)", handle, limit)
				}
				return []string{"post one", "post two"}, nil
			},
		}
		uc := NewHandleUseCase(analyzer, fetcher)

		items, err := uc.AnalyzeHandle(context.Background(), "@gopher", 5)
		if err != nil {
			t.Fatalf("AnalyzeHandle() error = %v", err)
		}
		if len(items) != 2 {
			t.Errorf("len = %d, want 2", len(items))
		}
		if !reflect.DeepEqual(analyzer.BatchCalls[0], []string{"post one", "post two"}) {
			t.Errorf("texts = %v", analyzer.BatchCalls[0])
		}
	})

	t.Run("正常系: 取得できなければサンプル投稿", func(t *testing.T) {
		analyzer := &MockAnalyzer{}
		fetcher := &MockFetcher{
			RecentPostsFunc: func(ctx context.Context, handle string, limit int) ([]string, error) {
				return nil, errors.New("rate limited")
			},
		}
		uc := NewHandleUseCase(analyzer, fetcher)

		if _, err := uc.AnalyzeHandle(context.Background(), "gopher", 3); err != nil {
			t.Fatalf("AnalyzeHandle() error = %v", err)
		}
		want := []string{"gopher sample post #1", "gopher sample post #2", "gopher sample post #3"}
		if !reflect.DeepEqual(analyzer.BatchCalls[0], want) {
			t.Errorf("texts = %v, want %v", analyzer.BatchCalls[0], want)
		}
	})

	t.Run("エッジケース: 取得結果が空", func(t *testing.T) {
		analyzer := &MockAnalyzer{}
		uc := NewHandleUseCase(analyzer, &MockFetcher{})

		if _, err := uc.AnalyzeHandle(context.Background(), "gopher", 1); err != nil {
			t.Fatalf("AnalyzeHandle() error = %v", err)
		}
		if !reflect.DeepEqual(analyzer.BatchCalls[0], []string{"gopher sample post #1"}) {
			t.Errorf("texts = %v", analyzer.BatchCalls[0])
		}
	})

	t.Run("境界値: 上限を超える件数は100件", func(t *testing.T) {
		analyzer := &MockAnalyzer{}
		uc := NewHandleUseCase(analyzer, nil)

		if _, err := uc.AnalyzeHandle(context.Background(), "gopher", 500); err != nil {
			t.Fatalf("AnalyzeHandle() error = %v", err)
		}
		if len(analyzer.BatchCalls[0]) != MaxHandleLimit {
			t.Errorf("len = %d, want %d", len(analyzer.BatchCalls[0]), MaxHandleLimit)
		}
	})

	t.Run("異常系: 分析失敗", func(t *testing.T) {
		analyzer := &MockAnalyzer{
			AnalyzeBatchFunc: func(ctx context.Context, texts []string) ([]domain.BatchItem, error) {
				return nil, &domain.ClassificationError{Op: "batch"}
			},
		}
		uc := NewHandleUseCase(analyzer, nil)

		_, err := uc.AnalyzeHandle(context.Background(), "gopher", 2)
		if !errors.Is(err, domain.ErrClassificationFailure) {
			t.Errorf("AnalyzeHandle() error = %v, want ErrClassificationFailure", err)
		}
	})
}
