package cmd

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/handlers"
	"github.com/MadAppGang/httplog"
	lzap "github.com/MadAppGang/httplog/zap"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/madflojo/tasks"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewHttpServer(lc fx.Lifecycle, cfg *config.Config, mux *http.ServeMux, log *zap.Logger) *http.Server {
	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "X-Client-ID"}),
	)
	recovery := gorillahandlers.RecoveryHandler(gorillahandlers.RecoveryLogger(zap.NewStdLog(log)))

	accessLog := httplog.LoggerWithConfig(httplog.LoggerConfig{
		Formatter: lzap.ZapLogger(log, zap.InfoLevel, "http request"),
	}, mux)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      recovery(cors(accessLog)),
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

func NewServeMux(routers []handlers.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	for _, router := range routers {
		router.ServeHttp(mux)
	}
	return mux
}

func NewScheduler(lc fx.Lifecycle) *tasks.Scheduler {
	scheduler := tasks.New()
	lc.Append(fx.StopHook(scheduler.Stop))
	return scheduler
}

func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
