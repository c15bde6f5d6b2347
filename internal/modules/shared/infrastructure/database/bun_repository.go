package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"

	_ "github.com/go-sql-driver/mysql"

	"sentiment-api-app/internal/config"
	"sentiment-api-app/internal/modules/review/domain"
)

const (
	labelPositive = "positive"
	labelNegative = "negative"
	labelNeutral  = "neutral"
)

// Review BUNモデル
type Review struct {
	bun.BaseModel `bun:"table:reviews"`

	ID                  int64      `bun:"id,pk,autoincrement"`
	Product             string     `bun:"product,notnull,type:varchar(255)"`
	Rating              *int       `bun:"rating,type:tinyint"`
	Text                string     `bun:"text,notnull,type:longtext"`
	SentimentLabel      *string    `bun:"sentiment_label,type:varchar(255)"`
	SentimentConfidence *float64   `bun:"sentiment_confidence,type:double"`
	EmotionLabel        *string    `bun:"emotion_label,type:varchar(255)"`
	EmotionConfidence   *float64   `bun:"emotion_confidence,type:double"`
	AnalyzedAt          *time.Time `bun:"analyzed_at,type:datetime"`
	CreatedAt           time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt           time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// aggregateRow 集計クエリの1行
type aggregateRow struct {
	Product  string `bun:"product"`
	Rating   *int   `bun:"rating"`
	Total    int64  `bun:"total"`
	Positive int64  `bun:"pos"`
	Negative int64  `bun:"neg"`
	Neutral  int64  `bun:"neu"`
}

// NewDB MySQLに接続してBUNのDBを作成
func NewDB(cfg *config.MySQLConfig) (*bun.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	sqldb, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := bun.NewDB(sqldb, mysqldialect.New())

	// 接続確認
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// BunReviewRepository BUN実装
type BunReviewRepository struct {
	db *bun.DB
}

// NewBunReviewRepository 新しいBunReviewRepositoryを作成
func NewBunReviewRepository(cfg *config.MySQLConfig) (*BunReviewRepository, error) {
	db, err := NewDB(cfg)
	if err != nil {
		return nil, err
	}
	return &BunReviewRepository{db: db}, nil
}

// NewBunReviewRepositoryWithDB DBインスタンスから作成（テスト用）
func NewBunReviewRepositoryWithDB(db *bun.DB) *BunReviewRepository {
	return &BunReviewRepository{db: db}
}

// CreateTable reviewsテーブルを作成（存在する場合は何もしない）
func (r *BunReviewRepository) CreateTable(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().Model((*Review)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to create reviews table: %w", err)
	}
	return nil
}

// Create レビューを作成（IDは採番された値で更新される）
func (r *BunReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	model := r.toModel(review)

	if _, err := r.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	review.ID = model.ID
	return nil
}

// FindByID IDでレビューを検索
func (r *BunReviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	model := &Review{}
	err := r.db.NewSelect().
		Model(model).
		Where("id = ?", id).
		Scan(ctx)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", domain.ErrReviewNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find review: %w", err)
	}

	return r.toEntity(model), nil
}

// UpdateSentiment 分析結果を保存
func (r *BunReviewRepository) UpdateSentiment(ctx context.Context, id int64, s domain.Sentiment) error {
	_, err := r.db.NewUpdate().
		Model((*Review)(nil)).
		Set("sentiment_label = ?", s.Label).
		Set("sentiment_confidence = ?", s.Confidence).
		Set("emotion_label = ?", s.EmotionLabel).
		Set("emotion_confidence = ?", s.EmotionConfidence).
		Set("analyzed_at = ?", s.AnalyzedAt).
		Set("updated_at = ?", s.AnalyzedAt).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update review sentiment: %w", err)
	}
	return nil
}

// AggregateByProduct 商品ごとの件数を多い順に集計
func (r *BunReviewRepository) AggregateByProduct(ctx context.Context, limit int) ([]domain.ProductAggregate, error) {
	var rows []aggregateRow
	query := r.countQuery().
		ColumnExpr("product").
		Group("product").
		OrderExpr("total DESC, product ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews by product: %w", err)
	}

	out := make([]domain.ProductAggregate, len(rows))
	for i, row := range rows {
		out[i] = domain.ProductAggregate{Product: row.Product, SentimentCounts: row.counts()}
	}
	return out, nil
}

// AggregateByRating 評価ごとの件数を評価の昇順に集計
func (r *BunReviewRepository) AggregateByRating(ctx context.Context) ([]domain.RatingAggregate, error) {
	var rows []aggregateRow
	err := r.countQuery().
		ColumnExpr("rating").
		Group("rating").
		OrderExpr("rating ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews by rating: %w", err)
	}

	out := make([]domain.RatingAggregate, len(rows))
	for i, row := range rows {
		out[i] = domain.RatingAggregate{Rating: row.Rating, SentimentCounts: row.counts()}
	}
	return out, nil
}

// Close データベース接続を閉じる
func (r *BunReviewRepository) Close() error {
	return r.db.Close()
}

// countQuery 件数とラベル別件数を数えるSELECT
func (r *BunReviewRepository) countQuery() *bun.SelectQuery {
	return r.db.NewSelect().
		Model((*Review)(nil)).
		ColumnExpr("COUNT(*) AS total").
		ColumnExpr("COALESCE(SUM(sentiment_label = ?), 0) AS pos", labelPositive).
		ColumnExpr("COALESCE(SUM(sentiment_label = ?), 0) AS neg", labelNegative).
		ColumnExpr("COALESCE(SUM(sentiment_label = ?), 0) AS neu", labelNeutral)
}

func (row aggregateRow) counts() domain.SentimentCounts {
	return domain.SentimentCounts{
		Total:    row.Total,
		Positive: row.Positive,
		Negative: row.Negative,
		Neutral:  row.Neutral,
	}
}

// toModel エンティティをモデルに変換
func (r *BunReviewRepository) toModel(review *domain.Review) *Review {
	now := time.Now()
	model := &Review{
		ID:                  review.ID,
		Product:             review.Product,
		Rating:              review.Rating,
		Text:                review.Text,
		SentimentLabel:      review.SentimentLabel,
		SentimentConfidence: review.SentimentConfidence,
		EmotionLabel:        review.EmotionLabel,
		EmotionConfidence:   review.EmotionConfidence,
		AnalyzedAt:          review.AnalyzedAt,
		CreatedAt:           review.CreatedAt,
		UpdatedAt:           review.UpdatedAt,
	}

	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
	}
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = model.CreatedAt
	}

	return model
}

// toEntity モデルをエンティティに変換
func (r *BunReviewRepository) toEntity(model *Review) *domain.Review {
	return &domain.Review{
		ID:                  model.ID,
		Product:             model.Product,
		Rating:              model.Rating,
		Text:                model.Text,
		SentimentLabel:      model.SentimentLabel,
		SentimentConfidence: model.SentimentConfidence,
		EmotionLabel:        model.EmotionLabel,
		EmotionConfidence:   model.EmotionConfidence,
		AnalyzedAt:          model.AnalyzedAt,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}
