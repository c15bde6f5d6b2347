package domain

import (
	"strings"
	"time"
)

// Review 商品レビュー
type Review struct {
	ID                  int64
	Product             string
	Rating              *int
	Text                string
	SentimentLabel      *string
	SentimentConfidence *float64
	EmotionLabel        *string
	EmotionConfidence   *float64
	AnalyzedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewReview 新しいレビューを作成（前後の空白は除去）
func NewReview(product string, rating *int, text string, now time.Time) *Review {
	return &Review{
		Product:   strings.TrimSpace(product),
		Rating:    rating,
		Text:      strings.TrimSpace(text),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAnalyzed 感情分析済みか
func (r *Review) IsAnalyzed() bool {
	return r.AnalyzedAt != nil
}

// Sentiment レビューに保存する分析結果
type Sentiment struct {
	Label             string
	Confidence        float64
	EmotionLabel      *string
	EmotionConfidence *float64
	AnalyzedAt        time.Time
}

// SentimentCounts 感情ラベルごとの件数
type SentimentCounts struct {
	Total    int64 `json:"total"`
	Positive int64 `json:"pos"`
	Negative int64 `json:"neg"`
	Neutral  int64 `json:"neu"`
}

// ProductAggregate 商品ごとの集計
type ProductAggregate struct {
	Product string `json:"product"`
	SentimentCounts
}

// RatingAggregate 評価ごとの集計（評価なしはnil）
type RatingAggregate struct {
	Rating *int `json:"rating"`
	SentimentCounts
}
