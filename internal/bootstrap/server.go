package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/flightroutes/api"
	"github.com/Domenick1991/flightroutes/config"
	statsapi "github.com/Domenick1991/flightroutes/internal/api/stats_service_api"
	"github.com/Domenick1991/flightroutes/internal/middleware"
	"github.com/Domenick1991/flightroutes/internal/presentation"
	"github.com/Domenick1991/flightroutes/internal/service/dataset"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
)

const swaggerDoc = "/swagger/routes.swagger.json"

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
}

// Run starts the gRPC and HTTP servers and blocks until ctx is canceled or a
// server fails. gRPC is skipped when no address is configured.
func Run(ctx context.Context, cfg *config.Config, builder *presentation.Builder, datasets dataset.DatasetUseCase) error {
	s := newServers(cfg, builder, datasets)

	errCh := make(chan error, 2)

	if cfg.GRPC.Address != "" {
		lis, err := net.Listen("tcp", cfg.GRPC.Address)
		if err != nil {
			return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
		}
		go func() { errCh <- s.grpcServer.Serve(lis) }()
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServers(cfg *config.Config, builder *presentation.Builder, datasets dataset.DatasetUseCase) *Servers {
	grpcSrv := grpc.NewServer()
	statsapi.RegisterStatsServiceServer(grpcSrv, statsapi.NewServer(builder))

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Addr:    cfg.HTTP.Address,
			Handler: NewRouter(cfg, builder, datasets),
		},
	}
}

// NewRouter wires the dashboard, the JSON API and the API docs.
func NewRouter(cfg *config.Config, builder *presentation.Builder, datasets dataset.DatasetUseCase) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())

	api.NewDashboardHandler(builder).Register(router)
	api.NewStatsHandler(builder, datasets).Register(router.Group("/api/v1"))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerDoc))))
	}

	return router
}
