package repository

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss キーが存在しない（または期限切れ）
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository キャッシュリポジトリのインターフェース
//
// Getはキーが存在しない場合にErrCacheMissをラップしたエラーを返す。
// それ以外のエラーはキャッシュ基盤の障害として扱う。
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
