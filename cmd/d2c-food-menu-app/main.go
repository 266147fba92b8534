package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zertkwork/d2c-food-menu-app/internal/admin"
	"github.com/zertkwork/d2c-food-menu-app/internal/api"
	"github.com/zertkwork/d2c-food-menu-app/internal/auth"
	"github.com/zertkwork/d2c-food-menu-app/internal/delivery"
	"github.com/zertkwork/d2c-food-menu-app/internal/events"
	"github.com/zertkwork/d2c-food-menu-app/internal/kitchen"
	"github.com/zertkwork/d2c-food-menu-app/internal/menu"
	"github.com/zertkwork/d2c-food-menu-app/internal/order"
	"github.com/zertkwork/d2c-food-menu-app/internal/payment"
	"github.com/zertkwork/d2c-food-menu-app/internal/storage"
	"github.com/zertkwork/d2c-food-menu-app/internal/stream"
	"github.com/zertkwork/d2c-food-menu-app/pkg/config"
	"github.com/zertkwork/d2c-food-menu-app/pkg/db"
	"github.com/zertkwork/d2c-food-menu-app/pkg/logger"
)

const sessionTTL = 24 * time.Hour

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	orderRepo := storage.NewOrderRepo(pool)
	customerRepo := storage.NewCustomerRepo(pool)
	menuRepo := storage.NewMenuRepo(pool)
	userRepo := storage.NewUserRepo(pool)

	bus := events.NewBus(log)

	tracking := stream.NewRegistry[stream.OrderStatusUpdate]()
	board := stream.NewRegistry[stream.KitchenOrderUpdate]()
	stream.NewNotifier(tracking, board, orderRepo, log).Register(bus)

	order.NewOrchestrator(orderRepo, menuRepo, log).Register(bus)

	var bridge *events.Bridge
	if cfg.AMQPURL != "" {
		instanceID := uuid.New().String()
		bridge, err = events.ConnectBridge(cfg.AMQPURL, instanceID, bus, log)
		if err != nil {
			return err
		}
		defer bridge.Close()
	}

	gateway := payment.NewClient(cfg.PaystackSecret, log)
	orderSvc := order.NewService(
		orderRepo, customerRepo, gateway, bus,
		cfg.PaystackSecret, cfg.FrontendURL, cfg.PaymentMode, log,
	)

	tokens := auth.NewTokens(cfg.SessionSecret, sessionTTL)
	authSvc := auth.NewService(userRepo, tokens, log)
	kitchenSvc := kitchen.NewService(orderRepo, bus, log)
	deliverySvc := delivery.NewService(orderRepo, bus, log)
	menuSvc := menu.NewService(menuRepo)
	adminSvc := admin.NewService(menuRepo, orderRepo, log)

	server := api.NewServer(
		orderSvc, menuSvc, kitchenSvc, deliverySvc, adminSvc, authSvc,
		tracking, board, log,
	)

	httpServer := &http.Server{
		Addr:        ":" + cfg.HTTPPort,
		Handler:     server.Routes(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Action("server_started").Info("HTTP server listening", "port", cfg.HTTPPort, "payment_mode", cfg.PaymentMode)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if bridge != nil {
		g.Go(func() error { return bridge.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Action("server_stopped").Info("Shutdown complete")
	return nil
}
