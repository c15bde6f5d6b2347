package router

import (
	"net/http"

	"sentiment-api-app/internal/presentation/di"
	"sentiment-api-app/internal/presentation/http/middleware"
)

// NewRouter 新しいルーターを作成
func NewRouter(container *di.Container) http.Handler {
	mux := http.NewServeMux()

	// Sentiment API ハンドラー
	sentimentHandler := container.SentimentHandler()
	mux.HandleFunc("POST /api/sentiment/analyze", sentimentHandler.HandleAnalyze)
	mux.HandleFunc("GET /api/sentiment/status/{id}", sentimentHandler.HandleStatus)
	mux.HandleFunc("POST /api/sentiment/batch-csv", sentimentHandler.HandleBatchCSV)
	mux.HandleFunc("GET /api/sentiment/handle", sentimentHandler.HandleAnalyzeHandle)

	// Review API ハンドラー
	reviewHandler := container.ReviewHandler()
	mux.HandleFunc("POST /api/reviews/import-csv", reviewHandler.HandleImportCSV)
	mux.HandleFunc("GET /api/reviews/aggregates", reviewHandler.HandleAggregates)

	// Health check / Metrics
	mux.Handle("/health", container.HealthHandler())
	mux.Handle("GET /metrics", container.Metrics().Handler())

	// ミドルウェアの適用
	var h http.Handler = mux
	h = middleware.Recovery(h)
	h = middleware.LoggerWithHealthCheck(h)
	h = middleware.RequestID(h)
	h = middleware.CORS(h)

	return h
}
