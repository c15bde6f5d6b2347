package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sentiment-api-app/internal/config"
	"sentiment-api-app/internal/modules/sentiment/domain"
	"sentiment-api-app/internal/modules/shared/infrastructure/metrics"
)

const (
	endpointAnalyze = "analyze"
	endpointBatch   = "batch"

	// maxErrorBody エラー応答本文の最大保持バイト数
	maxErrorBody = 1024
)

// analyzeRequest POST /analyze のリクエスト
type analyzeRequest struct {
	Text string `json:"text"`
}

// batchRequest POST /batch のリクエスト
type batchRequest struct {
	Texts []string `json:"texts"`
}

// resultPayload 推論結果（欠損項目を許容する）
type resultPayload struct {
	Text              string        `json:"text"`
	Label             *string       `json:"label"`
	Confidence        optionalFloat `json:"confidence"`
	EmotionLabel      *string       `json:"emotion_label"`
	EmotionConfidence optionalFloat `json:"emotion_confidence"`
}

// batchResponse POST /batch のレスポンス
type batchResponse struct {
	Items []resultPayload `json:"items"`
}

// MLRepository 推論サービスのリポジトリ実装
type MLRepository struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// NewMLRepository 新しいMLRepositoryを作成
func NewMLRepository(cfg *config.MLConfig, m *metrics.Metrics) *MLRepository {
	return &MLRepository{
		baseURL: strings.TrimRight(cfg.ServerURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		metrics: m,
	}
}

// SetHTTPClient テスト用にHTTPクライアントを設定（テストコードからのみ使用）
func (r *MLRepository) SetHTTPClient(client *http.Client) {
	r.httpClient = client
}

// ClassifyOne 1件のテキストを分類
func (r *MLRepository) ClassifyOne(ctx context.Context, text string) (*domain.SentimentResult, error) {
	var payload resultPayload
	if err := r.post(ctx, endpointAnalyze, analyzeRequest{Text: text}, &payload); err != nil {
		return nil, err
	}

	// 単体APIは感情ラベルと確信度のみを扱う
	result := payload.toResult().Core()
	return &result, nil
}

// ClassifyMany 複数テキストを1リクエストで分類
func (r *MLRepository) ClassifyMany(ctx context.Context, texts []string) ([]domain.ClassifiedItem, error) {
	var payload batchResponse
	if err := r.post(ctx, endpointBatch, batchRequest{Texts: texts}, &payload); err != nil {
		return nil, err
	}

	items := make([]domain.ClassifiedItem, len(payload.Items))
	for i, p := range payload.Items {
		items[i] = domain.ClassifiedItem{
			Text:            p.Text,
			SentimentResult: p.toResult(),
		}
	}
	return items, nil
}

// post JSONをPOSTして応答をデコードする共通処理
func (r *MLRepository) post(ctx context.Context, endpoint string, body, out any) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.RecordClassifierRequest(endpoint, err, time.Since(start))
	}()

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/"+endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return &domain.ClassificationError{Op: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return &domain.ClassificationError{Op: endpoint, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.ClassificationError{
			Op:         endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.ClassificationError{Op: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &domain.ClassificationError{Op: endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}

// toResult 欠損項目にデフォルト値を適用して結果に変換
func (p resultPayload) toResult() domain.SentimentResult {
	result := domain.UnknownResult()
	if p.Label != nil {
		result.Label = *p.Label
	}
	if p.Confidence.Valid {
		result.Confidence = p.Confidence.Value
	}
	result.EmotionLabel = p.EmotionLabel
	if p.EmotionConfidence.Valid {
		v := p.EmotionConfidence.Value
		result.EmotionConfidence = &v
	}
	return result
}
