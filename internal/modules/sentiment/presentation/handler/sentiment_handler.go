package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"sentiment-api-app/internal/modules/sentiment/domain"
	"sentiment-api-app/internal/modules/sentiment/usecase"
	"sentiment-api-app/internal/modules/shared/infrastructure/csvfile"
	httpHandler "sentiment-api-app/internal/presentation/http/handler"
)

const (
	maxTextLength   = 10000
	maxHandleLength = 50

	maxJSONBody    = 1 << 20
	maxCSVFileSize = 5 << 20 // 5MB
)

// SentimentAnalyzer 同期分析のユースケース
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (*domain.SentimentResult, error)
	AnalyzeBatch(ctx context.Context, texts []string) ([]domain.BatchItem, error)
}

// JobSubmitter 非同期分析のユースケース
type JobSubmitter interface {
	Submit(ctx context.Context, text string) (string, error)
	Status(ctx context.Context, requestID string) (*domain.JobStatus, error)
}

// HandleAnalyzer SNSアカウント分析のユースケース
type HandleAnalyzer interface {
	AnalyzeHandle(ctx context.Context, handle string, limit int) ([]domain.BatchItem, error)
}

// SentimentHandler 感情分析APIのハンドラー
type SentimentHandler struct {
	sentiment SentimentAnalyzer
	jobs      JobSubmitter
	handles   HandleAnalyzer
}

// NewSentimentHandler 新しいSentimentHandlerを作成
func NewSentimentHandler(sentiment SentimentAnalyzer, jobs JobSubmitter, handles HandleAnalyzer) *SentimentHandler {
	return &SentimentHandler{
		sentiment: sentiment,
		jobs:      jobs,
		handles:   handles,
	}
}

// AnalyzeRequest 単体分析のリクエスト
type AnalyzeRequest struct {
	Text  string `json:"text"`
	Async bool   `json:"async"`
}

// QueuedResponse 非同期分析の受付レスポンス
type QueuedResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// ItemsResponse バッチ分析のレスポンス
type ItemsResponse struct {
	Items []domain.BatchItem `json:"items"`
}

// HandleAnalyze 単体分析（asyncならジョブ登録のみ）
func (h *SentimentHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var request AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&request); err != nil {
		httpHandler.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := httpHandler.ValidateLength("text", request.Text, 1, maxTextLength); err != nil {
		httpHandler.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if request.Async {
		requestID, err := h.jobs.Submit(r.Context(), request.Text)
		if err != nil {
			httpHandler.WriteUseCaseError(w, r, err)
			return
		}
		httpHandler.WriteJSON(w, http.StatusOK, QueuedResponse{RequestID: requestID, Status: domain.StatusQueued})
		return
	}

	result, err := h.sentiment.Analyze(r.Context(), request.Text)
	if err != nil {
		httpHandler.WriteUseCaseError(w, r, err)
		return
	}
	httpHandler.WriteJSON(w, http.StatusOK, result)
}

// HandleStatus 非同期分析の進捗
func (h *SentimentHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.jobs.Status(r.Context(), r.PathValue("id"))
	if errors.Is(err, domain.ErrStatusNotFound) {
		httpHandler.WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		httpHandler.WriteUseCaseError(w, r, err)
		return
	}
	httpHandler.WriteJSON(w, http.StatusOK, status)
}

// HandleBatchCSV CSVの1列をバッチ分析
func (h *SentimentHandler) HandleBatchCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCSVFileSize+(1<<20))
	if err := r.ParseMultipartForm(maxCSVFileSize); err != nil {
		httpHandler.WriteError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpHandler.WriteError(w, http.StatusUnprocessableEntity, "file is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	if header.Size > maxCSVFileSize {
		httpHandler.WriteError(w, http.StatusUnprocessableEntity, "file must not be larger than 5MB")
		return
	}

	hasHeader, err := httpHandler.ParseBool(r.FormValue("has_header"), true)
	if err != nil {
		httpHandler.WriteError(w, http.StatusUnprocessableEntity, "has_header must be a boolean")
		return
	}

	rows, err := csvfile.ReadAll(file)
	if err != nil {
		httpHandler.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	texts := ColumnTexts(rows, r.FormValue("column"), hasHeader)

	items, err := h.sentiment.AnalyzeBatch(r.Context(), texts)
	if err != nil {
		httpHandler.WriteUseCaseError(w, r, err)
		return
	}
	httpHandler.WriteJSON(w, http.StatusOK, ItemsResponse{Items: items})
}

// HandleAnalyzeHandle SNSアカウントの最近の投稿を分析
func (h *SentimentHandler) HandleAnalyzeHandle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	handle := query.Get("handle")
	if err := httpHandler.ValidateLength("handle", handle, 1, maxHandleLength); err != nil {
		httpHandler.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	limit := usecase.DefaultHandleLimit
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > usecase.MaxHandleLimit {
			httpHandler.WriteError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("limit must be an integer between 1 and %d", usecase.MaxHandleLimit))
			return
		}
		limit = n
	}

	items, err := h.handles.AnalyzeHandle(r.Context(), strings.TrimSpace(handle), limit)
	if err != nil {
		httpHandler.WriteUseCaseError(w, r, err)
		return
	}
	httpHandler.WriteJSON(w, http.StatusOK, ItemsResponse{Items: items})
}

// ColumnTexts CSVの指定列から空でないセルを取り出す
//
// 列名が見つからない、または未指定の場合は先頭列を使う。
func ColumnTexts(rows [][]string, column string, hasHeader bool) []string {
	colIndex := 0
	if hasHeader && len(rows) > 0 {
		if column != "" {
			if i := csvfile.ColumnIndex(rows[0], column); i >= 0 {
				colIndex = i
			}
		}
		rows = rows[1:]
	}

	texts := make([]string, 0, len(rows))
	for _, row := range rows {
		cell, ok := csvfile.Cell(row, colIndex)
		if !ok {
			continue
		}
		if v := strings.TrimSpace(cell); v != "" {
			texts = append(texts, v)
		}
	}
	return texts
}
