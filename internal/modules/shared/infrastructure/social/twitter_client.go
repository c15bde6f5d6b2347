package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"sentiment-api-app/internal/config"
)

const recentSearchPath = "/2/tweets/search/recent"

// searchResponse 最近の投稿検索APIのレスポンス
type searchResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// TwitterClient X(Twitter) API v2 の投稿取得クライアント
type TwitterClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewTwitterClient Bearerトークン付きのクライアントを作成（トークン未設定ならnil）
func NewTwitterClient(cfg *config.TwitterConfig, timeout time.Duration) *TwitterClient {
	if cfg.BearerToken == "" {
		return nil
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.BearerToken,
		TokenType:   "Bearer",
	})
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})

	return &TwitterClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: oauth2.NewClient(ctx, src),
	}
}

// RecentPosts アカウントの最近の投稿本文を取得
func (c *TwitterClient) RecentPosts(ctx context.Context, handle string, limit int) ([]string, error) {
	query := url.Values{}
	query.Set("query", "from:"+handle)
	query.Set("max_results", strconv.Itoa(limit))
	query.Set("tweet.fields", "lang,created_at")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+recentSearchPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter API error: status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	texts := make([]string, 0, len(payload.Data))
	for _, tweet := range payload.Data {
		texts = append(texts, tweet.Text)
	}
	return texts, nil
}
