package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// cacheKeyPrefix 推論結果キャッシュのキー接頭辞
const cacheKeyPrefix = "ml:sentiment:"

// Normalize 前後の空白を除去する
func Normalize(text string) string {
	return strings.TrimSpace(text)
}

// CacheKey 正規化済みテキストからキャッシュキーを生成（小文字化してからハッシュ）
func CacheKey(normalized string) string {
	sum := md5.Sum([]byte(strings.ToLower(normalized)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
