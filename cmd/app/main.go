package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"sentiment-api-app/internal/config"
	"sentiment-api-app/internal/logging"
	"sentiment-api-app/internal/presentation/di"
	"sentiment-api-app/internal/presentation/http/router"
)

// newContainer DIコンテナの生成（テストで差し替えるSeam）
var newContainer = di.NewContainer

// AppConfig アプリケーション設定
type AppConfig struct {
	ConfigPath string
	EnvPath    string
	Port       string
}

// ServerInterface サーバーインターフェース（Seam化）
type ServerInterface interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// App アプリケーション構造体（Seamパターン）
type App struct {
	config     *AppConfig
	cfg        *config.Config
	container  *di.Container
	server     *http.Server
	serverSeam ServerInterface // テスト用のSeam

	mu         sync.Mutex
	stopWorker context.CancelFunc
	workerDone chan struct{}
	closeOnce  sync.Once
}

// NewApp 新しいAppを作成
func NewApp(appCfg *AppConfig) (*App, error) {
	if appCfg.EnvPath != "" {
		if err := config.LoadEnvFile(appCfg.EnvPath); err != nil {
			slog.Warn("Failed to load env file", "path", appCfg.EnvPath, "error", err)
		}
	}

	// 設定の読み込み
	cfg, err := config.Load(appCfg.ConfigPath)
	if err != nil {
		slog.Warn("Failed to load config. Using defaults.", "error", err)
		cfg = config.DefaultConfig()
	}
	logging.Init(cfg.Log)

	// ポートのデフォルト値設定（引数 > 設定ファイル > 8080）
	if appCfg.Port == "" {
		appCfg.Port = cfg.Server.Port
	}
	if appCfg.Port == "" {
		appCfg.Port = "8080"
	}

	// DIコンテナの初期化
	container, err := newContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DI container: %w", err)
	}

	// ルーターの作成
	handler := router.NewRouter(container)

	// サーバーの設定
	server := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	app := &App{
		config:    appCfg,
		cfg:       cfg,
		container: container,
		server:    server,
	}
	// デフォルトでは実際のサーバーを使用
	app.serverSeam = server

	return app, nil
}

// Start マイグレーションとワーカー起動の後にサーバーを起動
func (a *App) Start() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := a.container.Migrate(ctx)
	cancel()
	if err != nil {
		return err
	}

	a.startWorker()
	a.logStartup()

	// サーバー起動（Seamを使用）
	return a.serverSeam.ListenAndServe()
}

// startWorker バックグラウンドワーカーを起動
func (a *App) startWorker() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	a.mu.Lock()
	a.stopWorker = cancel
	a.workerDone = done
	a.mu.Unlock()

	go func() {
		defer close(done)
		a.container.Worker().Run(ctx)
	}()
}

// logStartup 起動メッセージを出力
func (a *App) logStartup() {
	slog.Info("Sentiment API server started",
		"addr", "http://0.0.0.0:"+a.config.Port,
		"ml_server", a.cfg.ML.ServerURL,
		"queue", a.cfg.Queue.Name,
		"workers", a.cfg.Queue.Workers,
	)
	slog.Info("Endpoints",
		"analyze", "POST /api/sentiment/analyze",
		"status", "GET /api/sentiment/status/{id}",
		"batch_csv", "POST /api/sentiment/batch-csv",
		"handle", "GET /api/sentiment/handle",
		"import_csv", "POST /api/reviews/import-csv",
		"aggregates", "GET /api/reviews/aggregates",
	)
}

// Shutdown サーバーとワーカーを停止（2回目以降の呼び出しは何もしない）
func (a *App) Shutdown(ctx context.Context) error {
	var err error
	a.closeOnce.Do(func() {
		err = a.shutdown(ctx)
	})
	return err
}

func (a *App) shutdown(ctx context.Context) error {
	slog.Info("Shutting down server...")

	// サーバーのシャットダウン（Seamを使用）
	if err := a.serverSeam.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// 処理中のジョブを待つ
	a.mu.Lock()
	stop, done := a.stopWorker, a.workerDone
	a.mu.Unlock()
	if stop != nil {
		stop()
		select {
		case <-done:
		case <-ctx.Done():
			slog.Warn("Worker did not stop before shutdown deadline")
		}
	}

	// コンテナのクローズ
	if err := a.container.Close(); err != nil {
		return fmt.Errorf("container close failed: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

// Run アプリケーションを実行（グレースフルシャットダウン付き）
func (a *App) Run() error {
	// サーバー起動（goroutine）
	serverErr := make(chan error, 1)
	go func() {
		if err := a.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// シグナルの待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = a.Shutdown(ctx)
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
		// グレースフルシャットダウン
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return a.Shutdown(ctx)
	}
}

// realMain 実際のmain処理（テスト可能にするため分離）
func realMain() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// アプリケーション設定
	appCfg := &AppConfig{
		ConfigPath: configPath,
		EnvPath:    ".env",
		Port:       os.Getenv("PORT"),
	}

	// アプリケーションの作成
	app, err := NewApp(appCfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	// アプリケーションの実行
	return app.Run()
}

func main() {
	if err := realMain(); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}
