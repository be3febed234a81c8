package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"zonearena/game"
	"zonearena/ledger"
	"zonearena/server"
)

// ZoneArena 入口：启动 HTTP + WebSocket 服务，并初始化房间管理器
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "zonearena: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := server.LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}
	// 使用 zap 日志写入文件（带滚动）与标准错误
	if err := server.InitLogger(cfg.LogFile, cfg.LogLevel); err != nil {
		return err
	}
	defer server.SyncLogger()

	tuning, err := game.LoadConfigFile(cfg.TuningFile)
	if err != nil {
		return err
	}

	store := openStore(cfg)
	scores := ledger.New(store, server.Log.Named("ledger"))
	scores.Load(context.Background())

	rm := server.NewRoomManager(tuning, scores, server.Log, cfg.DefaultRoom, cfg.MaxRooms)
	// 先预创建默认房间（常驻，不受空闲回收影响）
	if _, err := rm.GetOrCreateRoom(cfg.DefaultRoom); err != nil {
		return multierr.Append(err, scores.Close())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", rm.HandleWS)
	// 前后端分离：将 / 映射到静态资源目录
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	// 管理与监控接口
	mux.HandleFunc("/admin/config", rm.HandleAdminConfig)
	mux.HandleFunc("/admin/schema", rm.HandleSchema)
	mux.HandleFunc("/rooms", rm.HandleRooms)
	mux.HandleFunc("/metrics", rm.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		server.Log.Infof("ZoneArena listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		server.Log.Infow("Shutting down...", "signal", sig.String())
	case err := <-errCh:
		server.Log.Errorw("listen failed", "err", err)
		rm.Close()
		return multierr.Append(fmt.Errorf("listen: %w", err), scores.Close())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(ctx)
	// 停止房间会结算仍在线玩家的分数，之后再关闭存储
	rm.Close()
	return multierr.Combine(err, scores.Close())
}

// openStore 配置了 DATABASE_URL 时使用 Postgres，否则（或连接失败时）使用 JSON 文件
func openStore(cfg server.Config) ledger.Store {
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := ledger.OpenPostgres(ctx, cfg.DatabaseURL)
		if err == nil {
			server.Log.Info("high scores stored in postgres")
			return store
		}
		server.Log.Errorw("postgres unavailable, falling back to file", "err", err)
	}
	server.Log.Infow("high scores stored in file", "path", cfg.ScoresFile)
	return ledger.NewFileStore(cfg.ScoresFile)
}
