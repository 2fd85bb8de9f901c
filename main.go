package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/umalmyha/customers-crud/internal/config"
	"github.com/umalmyha/customers-crud/internal/infra"
	"github.com/umalmyha/customers-crud/internal/repository"
	"github.com/umalmyha/customers-crud/internal/service"
	"github.com/umalmyha/customers-crud/internal/validation"
	"google.golang.org/grpc"
)

// @title       Customers API
// @version     1.0
// @description CRUD API for customers resource
// @BasePath    /
func main() {
	cfg, err := config.Build()
	if err != nil {
		logrus.Fatal(err)
	}

	logger, err := infra.Logger(cfg.LogCfg, os.Stdout)
	if err != nil {
		logrus.Fatal(err)
	}

	shutdownTelemetry, err := infra.Telemetry(cfg.TelemetryCfg, os.Stdout)
	if err != nil {
		logger.Fatal(err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPCfg.ShutdownTimeout)
		defer cancel()

		if err := shutdownTelemetry(ctx); err != nil {
			logger.WithError(err).Error("failed to shutdown telemetry")
		}
	}()

	customerRps, closeStorage, err := storage(cfg)
	if err != nil {
		logger.Fatal(err)
	}
	defer closeStorage()

	validator, err := validation.English()
	if err != nil {
		logger.Fatal(err)
	}

	customerSvc := service.NewCustomerService(customerRps)

	e := infra.Router(customerSvc, validator, logger)

	var grpcSrv *grpc.Server
	if cfg.GrpcCfg.Enabled() {
		grpcSrv = infra.GrpcServer(customerSvc, validator, logger)
	}

	start(cfg, logger, e, grpcSrv)
}

func storage(cfg config.Config) (repository.CustomerRepository, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StorageCfg.ConnectTimeout)
	defer cancel()

	switch cfg.StorageCfg.Driver {
	case config.StorageDriverMongo:
		client, db, err := infra.Mongodb(ctx, cfg.MongoCfg)
		if err != nil {
			return nil, nil, err
		}

		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.StorageCfg.ConnectTimeout)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		return repository.NewMongoCustomerRepository(db), closeFn, nil
	default:
		db, err := infra.Postgresql(ctx, cfg.PostgresCfg)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresCustomerRepository(db), func() { _ = db.Close() }, nil
	}
}

func start(cfg config.Config, logger *logrus.Logger, e *echo.Echo, grpcSrv *grpc.Server) {
	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 2)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Infof("http server is listening on port %d", cfg.HTTPCfg.Port)
		errorCh <- e.Start(fmt.Sprintf(":%d", cfg.HTTPCfg.Port))
	}()

	if grpcSrv != nil {
		go func() {
			lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GrpcCfg.Port))
			if err != nil {
				errorCh <- fmt.Errorf("failed to listen on grpc port - %w", err)
				return
			}

			logger.Infof("grpc server is listening on port %d", cfg.GrpcCfg.Port)
			errorCh <- grpcSrv.Serve(lis)
		}()
	}

	select {
	case <-shutdownCh:
		logger.Info("shutdown signal has been sent, stopping the server...")
	case err := <-errorCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("shutting down the server, unexpected error occurred - %s", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPCfg.ShutdownTimeout)
	defer cancel()

	if grpcSrv != nil {
		stopGrpc(ctx, grpcSrv)
	}

	if err := e.Shutdown(ctx); err != nil {
		logger.Errorf("failed to stop server gracefully - %s", err)
	}
}

func stopGrpc(ctx context.Context, srv *grpc.Server) {
	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		srv.Stop()
	}
}
