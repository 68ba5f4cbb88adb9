package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/rl1809/pantry-tracker/internal/adapter/handler"
	"github.com/rl1809/pantry-tracker/internal/adapter/handler/pb"
	"github.com/rl1809/pantry-tracker/internal/adapter/storage"
	"github.com/rl1809/pantry-tracker/internal/config"
	"github.com/rl1809/pantry-tracker/internal/core/service"
)

const logFlags = log.LstdFlags | log.Lmsgprefix

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("load config: %v", err)
	}
	log.SetPrefix("[PANTRY] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize document store
	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	repo, err := storage.Open(connectCtx, cfg.Storage)
	connectCancel()
	if err != nil {
		log.Fatalf("failed to open %s storage: %v", cfg.Storage.Backend, err)
	}
	log.Printf("connected to %s storage", cfg.Storage.Backend)

	// Initialize services
	store := service.NewInventoryStore(repo, service.Options{
		Collection:    cfg.Collection,
		RemoteTimeout: cfg.RemoteTimeout,
		AtomicUpdates: cfg.AtomicUpdates,
		Logger:        log.New(os.Stderr, "[STORE] ", logFlags),
	})
	view := service.NewViewController(store)
	view.Activate(ctx)
	log.Printf("loaded %d items from collection %q", len(store.Items()), cfg.Collection)

	// Initialize gRPC server
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(handler.UnaryLoggingInterceptor(log.New(os.Stderr, "[GRPC] ", logFlags))),
	)
	pb.RegisterInventoryServiceServer(grpcServer, handler.NewGRPCHandler(store))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(pb.InventoryServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Printf("gRPC server error: %v", err)
		}
	}()

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(store, view, log.New(os.Stderr, "[HTTP] ", logFlags))
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpHandler.Router(),
		IdleTimeout:       3 * time.Minute,
		ReadHeaderTimeout: time.Minute,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	log.Println("HTTP server stopped")

	healthServer.Shutdown()
	grpcServer.GracefulStop()
	log.Println("gRPC server stopped")

	if err := repo.Close(); err != nil {
		log.Printf("close storage: %v", err)
	}
	log.Println("connections closed")
}
