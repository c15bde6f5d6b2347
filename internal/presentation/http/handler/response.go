package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	reviewDomain "sentiment-api-app/internal/modules/review/domain"
	sentimentDomain "sentiment-api-app/internal/modules/sentiment/domain"
	"sentiment-api-app/internal/modules/shared/infrastructure/csvfile"
)

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON JSONレスポンスを送信
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError エラーレスポンスを送信
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteUseCaseError ユースケースのエラーをHTTPステータスに変換して送信
func WriteUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := StatusFromError(err)

	message := err.Error()
	switch statusCode {
	case http.StatusInternalServerError:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "Internal server error"
	case http.StatusBadGateway:
		// 推論サービスの応答内容は返さない
		slog.Error("classification failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "Classification service unavailable"
	}

	WriteError(w, statusCode, message)
}

// StatusFromError エラーに対応するHTTPステータス
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, sentimentDomain.ErrClassificationFailure):
		return http.StatusBadGateway
	case errors.Is(err, sentimentDomain.ErrStatusNotFound),
		errors.Is(err, reviewDomain.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, csvfile.ErrMalformed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
