package domain

import "context"

// SocialFetcher SNSから投稿本文を取得するリポジトリインターフェース
type SocialFetcher interface {
	RecentPosts(ctx context.Context, handle string, limit int) ([]string, error)
}
