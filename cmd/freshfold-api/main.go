// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"freshfold/internal/config"
	httptransport "freshfold/internal/http"
	"freshfold/internal/infra"
	"freshfold/internal/logger"
	"freshfold/internal/modules/driver"
	"freshfold/internal/modules/order"
	"freshfold/internal/modules/revenue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		zlog.Fatal("db init", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer func() { _ = redisClient.Close() }()

	orderStore := order.NewStore(dbPool)
	orderSvc := order.NewService(orderStore, order.NewLogNotifier(zlog), zlog)

	driverStore := driver.NewStore(dbPool)
	driverSvc := driver.NewService(driverStore, orderSvc, zlog)

	revenueStore := revenue.NewStore(dbPool)
	revenueCache := revenue.NewCache(redisClient, cfg.Revenue.CacheTTL)
	revenueSvc := revenue.NewService(revenueStore, revenueCache, zlog)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Order:     orderSvc,
		Driver:    driverSvc,
		Revenue:   revenueSvc,
		JWTSecret: cfg.Auth.JWTSecret,
		Log:       zlog,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zlog.Error("shutdown", zap.Error(err))
		}
	}()

	zlog.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal("server", zap.Error(err))
	}
}
