package testcontainer

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	rediscontainer "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"sentiment-api-app/internal/config"
)

// RedisContainer Redisコンテナのラッパー
type RedisContainer struct {
	Container *rediscontainer.RedisContainer
	Host      string
	Port      int
}

// MySQLContainer MySQLコンテナのラッパー
type MySQLContainer struct {
	Container *mysql.MySQLContainer
	Host      string
	Port      int
	Database  string
	User      string
	Password  string
}

// StartRedis Redisコンテナを起動（Dockerが使えない環境ではテストをスキップ）
func StartRedis(ctx context.Context, t *testing.T) *RedisContainer {
	t.Helper()

	container, err := rediscontainer.Run(ctx,
		"redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("Skipping test: failed to start redis container: %v", err)
	}

	host, port, err := endpoint(ctx, container, "6379")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("Failed to get redis endpoint: %v", err)
	}

	rc := &RedisContainer{Container: container, Host: host, Port: port}
	t.Cleanup(func() { _ = rc.Close(context.Background()) })
	return rc
}

// StartMySQL MySQLコンテナを起動（Dockerが使えない環境ではテストをスキップ）
func StartMySQL(ctx context.Context, t *testing.T) *MySQLContainer {
	t.Helper()

	const (
		database = "testdb"
		user     = "testuser"
		password = "testpass"
	)

	container, err := mysql.Run(ctx,
		"mysql:8.0",
		mysql.WithDatabase(database),
		mysql.WithUsername(user),
		mysql.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("Skipping test: failed to start mysql container: %v", err)
	}

	host, port, err := endpoint(ctx, container, "3306")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("Failed to get mysql endpoint: %v", err)
	}

	mc := &MySQLContainer{
		Container: container,
		Host:      host,
		Port:      port,
		Database:  database,
		User:      user,
		Password:  password,
	}
	t.Cleanup(func() { _ = mc.Close(context.Background()) })
	return mc
}

// endpoint コンテナのホストとマップされたポートを取得
func endpoint(ctx context.Context, c testcontainers.Container, containerPort nat.Port) (string, int, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("failed to get container host: %w", err)
	}

	mapped, err := c.MappedPort(ctx, containerPort)
	if err != nil {
		return "", 0, fmt.Errorf("failed to get container port: %w", err)
	}

	port, err := strconv.Atoi(mapped.Port())
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse container port: %w", err)
	}
	return host, port, nil
}

// Close Redisコンテナを停止
func (r *RedisContainer) Close(ctx context.Context) error {
	if r.Container != nil {
		return r.Container.Terminate(ctx)
	}
	return nil
}

// Close MySQLコンテナを停止
func (m *MySQLContainer) Close(ctx context.Context) error {
	if m.Container != nil {
		return m.Container.Terminate(ctx)
	}
	return nil
}

// Config Redis接続設定を取得
func (r *RedisContainer) Config() *config.RedisConfig {
	return &config.RedisConfig{
		Host: r.Host,
		Port: r.Port,
		DB:   0,
	}
}

// Config MySQL接続設定を取得
func (m *MySQLContainer) Config() *config.MySQLConfig {
	return &config.MySQLConfig{
		Host:     m.Host,
		Port:     m.Port,
		User:     m.User,
		Password: m.Password,
		Database: m.Database,
	}
}
