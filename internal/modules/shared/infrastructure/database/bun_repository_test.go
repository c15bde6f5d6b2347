package database

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"sentiment-api-app/internal/config"
	"sentiment-api-app/internal/modules/review/domain"
	"sentiment-api-app/internal/modules/shared/infrastructure/testcontainer"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()
	ctx := context.Background()

	// TestContainer起動
	mysqlContainer := testcontainer.StartMySQL(ctx, t)

	// DB接続
	db, err := NewDB(mysqlContainer.Config())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// テーブル作成
	if err := NewBunReviewRepositoryWithDB(db).CreateTable(ctx); err != nil {
		t.Fatalf("Failed to create reviews table: %v", err)
	}

	return db
}

func intPtr(v int) *int { return &v }

func TestBunReviewRepository_CreateFind(t *testing.T) {
	repo := NewBunReviewRepositoryWithDB(setupTestDB(t))
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	review := domain.NewReview("Widget", intPtr(5), "とても良い", now)

	if err := repo.Create(ctx, review); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if review.ID == 0 {
		t.Fatal("Create() should assign an ID")
	}

	got, err := repo.FindByID(ctx, review.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.Product != "Widget" || got.Text != "とても良い" {
		t.Errorf("FindByID() = %+v", got)
	}
	if got.Rating == nil || *got.Rating != 5 {
		t.Errorf("Rating = %v, want 5", got.Rating)
	}
	if got.IsAnalyzed() {
		t.Error("new review should not be analyzed")
	}

	t.Run("異常系: 存在しないID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 999999)
		if !errors.Is(err, domain.ErrReviewNotFound) {
			t.Errorf("FindByID() error = %v, want ErrReviewNotFound", err)
		}
	})

	t.Run("正常系: 評価なし", func(t *testing.T) {
		r := domain.NewReview("Gadget", nil, "ok", now)
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		got, err := repo.FindByID(ctx, r.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if got.Rating != nil {
			t.Errorf("Rating = %v, want nil", *got.Rating)
		}
	})
}

func TestBunReviewRepository_UpdateSentiment(t *testing.T) {
	repo := NewBunReviewRepositoryWithDB(setupTestDB(t))
	ctx := context.Background()

	review := domain.NewReview("Widget", intPtr(4), "nice", time.Now())
	if err := repo.Create(ctx, review); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	analyzedAt := time.Now().Truncate(time.Second)
	err := repo.UpdateSentiment(ctx, review.ID, domain.Sentiment{
		Label:      "positive",
		Confidence: 0.93,
		AnalyzedAt: analyzedAt,
	})
	if err != nil {
		t.Fatalf("UpdateSentiment() error = %v", err)
	}

	got, err := repo.FindByID(ctx, review.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.SentimentLabel == nil || *got.SentimentLabel != "positive" {
		t.Errorf("SentimentLabel = %v", got.SentimentLabel)
	}
	if got.SentimentConfidence == nil || math.Abs(*got.SentimentConfidence-0.93) > 1e-9 {
		t.Errorf("SentimentConfidence = %v", got.SentimentConfidence)
	}
	if got.EmotionLabel != nil || got.EmotionConfidence != nil {
		t.Error("emotion fields should stay NULL")
	}
	if got.AnalyzedAt == nil || !got.AnalyzedAt.Equal(analyzedAt) {
		t.Errorf("AnalyzedAt = %v, want %v", got.AnalyzedAt, analyzedAt)
	}
}

func TestBunReviewRepository_Aggregates(t *testing.T) {
	repo := NewBunReviewRepositoryWithDB(setupTestDB(t))
	ctx := context.Background()

	seed := []struct {
		product string
		rating  *int
		label   string
	}{
		{"A", intPtr(5), "positive"},
		{"A", intPtr(5), "positive"},
		{"A", intPtr(1), "negative"},
		{"B", intPtr(3), "neutral"},
		{"B", nil, ""},
		{"C", intPtr(5), "positive"},
	}
	for _, s := range seed {
		r := domain.NewReview(s.product, s.rating, "text", time.Now())
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if s.label != "" {
			if err := repo.UpdateSentiment(ctx, r.ID, domain.Sentiment{Label: s.label, Confidence: 0.9, AnalyzedAt: time.Now()}); err != nil {
				t.Fatalf("UpdateSentiment() error = %v", err)
			}
		}
	}

	t.Run("商品ごと", func(t *testing.T) {
		got, err := repo.AggregateByProduct(ctx, 50)
		if err != nil {
			t.Fatalf("AggregateByProduct() error = %v", err)
		}
		want := []domain.ProductAggregate{
			{Product: "A", SentimentCounts: domain.SentimentCounts{Total: 3, Positive: 2, Negative: 1}},
			{Product: "B", SentimentCounts: domain.SentimentCounts{Total: 2, Neutral: 1}},
			{Product: "C", SentimentCounts: domain.SentimentCounts{Total: 1, Positive: 1}},
		}
		if len(got) != len(want) {
			t.Fatalf("len = %d, want %d: %+v", len(got), len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("got[%d] = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("商品ごと: 件数制限", func(t *testing.T) {
		got, err := repo.AggregateByProduct(ctx, 1)
		if err != nil {
			t.Fatalf("AggregateByProduct() error = %v", err)
		}
		if len(got) != 1 || got[0].Product != "A" {
			t.Errorf("AggregateByProduct(1) = %+v", got)
		}
	})

	t.Run("評価ごと", func(t *testing.T) {
		got, err := repo.AggregateByRating(ctx)
		if err != nil {
			t.Fatalf("AggregateByRating() error = %v", err)
		}
		if len(got) != 4 {
			t.Fatalf("len = %d, want 4: %+v", len(got), got)
		}
		// NULLが先頭、以降は昇順
		if got[0].Rating != nil || got[0].Total != 1 {
			t.Errorf("got[0] = %+v, want rating=nil total=1", got[0])
		}
		wantRatings := []int{1, 3, 5}
		for i, want := range wantRatings {
			r := got[i+1]
			if r.Rating == nil || *r.Rating != want {
				t.Errorf("got[%d].Rating = %v, want %d", i+1, r.Rating, want)
			}
		}
		if got[3].Total != 3 || got[3].Positive != 3 {
			t.Errorf("rating 5 = %+v, want total=3 pos=3", got[3])
		}
	})
}

func TestNewBunReviewRepository_ConnectionFailure(t *testing.T) {
	cfg := &config.MySQLConfig{
		Host:     "localhost",
		Port:     1, // 無効なポート
		User:     "user",
		Password: "pass",
		Database: "db",
	}

	if _, err := NewBunReviewRepository(cfg); err == nil {
		t.Error("Expected error for invalid port, got nil")
	}
}
