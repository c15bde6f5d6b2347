package handler

import (
	"context"
	"io"
	"net/http"

	"sentiment-api-app/internal/modules/review/usecase"
	httpHandler "sentiment-api-app/internal/presentation/http/handler"
)

const maxImportFileSize = 10 << 20 // 10MB

// ReviewService レビューのユースケース
type ReviewService interface {
	ImportCSV(ctx context.Context, r io.Reader, opts usecase.ImportOptions) (*usecase.ImportResult, error)
	Aggregates(ctx context.Context) (*usecase.Aggregates, error)
}

// ReviewHandler レビューAPIのハンドラー
type ReviewHandler struct {
	reviews ReviewService
}

// NewReviewHandler 新しいReviewHandlerを作成
func NewReviewHandler(reviews ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// HandleImportCSV CSVからレビューを取り込む
func (h *ReviewHandler) HandleImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportFileSize+(1<<20))
	if err := r.ParseMultipartForm(maxImportFileSize); err != nil {
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

	if header.Size > maxImportFileSize {
		httpHandler.WriteError(w, http.StatusUnprocessableEntity, "file must not be larger than 10MB")
		return
	}

	opts, err := importOptions(r)
	if err != nil {
		httpHandler.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := h.reviews.ImportCSV(r.Context(), file, opts)
	if err != nil {
		httpHandler.WriteUseCaseError(w, r, err)
		return
	}
	httpHandler.WriteJSON(w, http.StatusOK, result)
}

// HandleAggregates 商品別・評価別の集計
func (h *ReviewHandler) HandleAggregates(w http.ResponseWriter, r *http.Request) {
	aggregates, err := h.reviews.Aggregates(r.Context())
	if err != nil {
		httpHandler.WriteUseCaseError(w, r, err)
		return
	}
	httpHandler.WriteJSON(w, http.StatusOK, aggregates)
}

// importOptions フォーム値から取り込み設定を作成
func importOptions(r *http.Request) (usecase.ImportOptions, error) {
	opts := usecase.DefaultImportOptions()

	var err error
	if opts.HasHeader, err = httpHandler.ParseBool(r.FormValue("has_header"), opts.HasHeader); err != nil {
		return opts, err
	}
	if opts.Queue, err = httpHandler.ParseBool(r.FormValue("queue"), opts.Queue); err != nil {
		return opts, err
	}

	if v := r.FormValue("product_column"); v != "" {
		opts.ProductColumn = v
	}
	if v := r.FormValue("rating_column"); v != "" {
		opts.RatingColumn = v
	}
	if v := r.FormValue("text_column"); v != "" {
		opts.TextColumn = v
	}
	return opts, nil
}
