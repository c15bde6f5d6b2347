package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sentiment-api-app/internal/modules/shared/domain/repository"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryRepository プロセス内のキャッシュ実装（開発・テスト用）
//
// 期限切れのエントリは読み取り時に判定するだけで、能動的には削除しない。
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryRepository 新しいMemoryRepositoryを作成
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Set キーと値を設定（expirationが0以下なら無期限）
func (m *MemoryRepository) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if expiration > 0 {
		entry.expiresAt = m.now().Add(expiration)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Get キーから値を取得
func (m *MemoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || m.expired(entry) {
		return nil, fmt.Errorf("%w: %s", repository.ErrCacheMiss, key)
	}
	return append([]byte(nil), entry.value...), nil
}

// Delete キーを削除
func (m *MemoryRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}

	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Exists キーが存在するか確認
func (m *MemoryRepository) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("failed to check cache existence: %w", err)
	}

	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	return ok && !m.expired(entry), nil
}

// Close 何もしない（インターフェース互換のため）
func (m *MemoryRepository) Close() error {
	return nil
}

func (m *MemoryRepository) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}
