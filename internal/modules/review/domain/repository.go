package domain

import (
	"context"
	"errors"
)

// ErrReviewNotFound レビューが存在しない
var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository レビューリポジトリのインターフェース
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	FindByID(ctx context.Context, id int64) (*Review, error)
	UpdateSentiment(ctx context.Context, id int64, sentiment Sentiment) error
	AggregateByProduct(ctx context.Context, limit int) ([]ProductAggregate, error)
	AggregateByRating(ctx context.Context) ([]RatingAggregate, error)
}
