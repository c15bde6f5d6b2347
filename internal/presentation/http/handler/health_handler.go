package handler

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// Version APIのバージョン
const Version = "1.0.0"

// Pinger 接続確認ができる依存先
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc 関数をPingerとして扱うアダプター
type PingerFunc func(ctx context.Context) error

// Ping fを呼び出す
func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler ヘルスチェックのハンドラー
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler 新しいHealthHandlerを作成（checksは名前ごとの依存先）
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		timeout: 2 * time.Second,
	}
}

// HealthResponse ヘルスチェックのレスポンス
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ServeHTTP ヘルスチェックを処理（依存先が1つでも落ちていれば503）
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	response := HealthResponse{Status: "ok", Version: Version}
	statusCode := http.StatusOK

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if response.Checks == nil {
			response.Checks = make(map[string]string, len(names))
		}
		if err := h.checks[name].Ping(ctx); err != nil {
			response.Checks[name] = err.Error()
			response.Status = "degraded"
			statusCode = http.StatusServiceUnavailable
			continue
		}
		response.Checks[name] = "ok"
	}

	WriteJSON(w, statusCode, response)
}
