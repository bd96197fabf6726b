package cmd

import (
	"net/http"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/handlers"
	"github.com/2HgO/chainrelief-go/models"
	"github.com/2HgO/chainrelief-go/services"
	"github.com/2HgO/chainrelief-go/wallet"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ChainRelief HTTP API",
	Long: `Start the HTTP API used by the ChainRelief front-end: asset catalog, swap quotes,
swap execution, donations, campaign statistics and wallet lookups.

Configuration is read from CHAINRELIEF_* environment variables, a .env file and
an optional chainrelief.yaml.

Examples:
  chainrelief serve
  CHAINRELIEF_SERVER_ADDR=:9000 chainrelief serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app := fx.New(appOptions(cfg)...)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}

func appOptions(cfg *config.Config) []fx.Option {
	return []fx.Option{
		fx.Supply(cfg),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Provide(
			NewHttpServer,
			fx.Annotate(
				NewServeMux,
				fx.ParamTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewAssetHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewCampaignHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewQuoteHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewSwapHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewDonationHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewMetricsHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			fx.Annotate(
				handlers.NewWalletHandler,
				fx.As(new(handlers.Handler)),
				fx.ResultTags(`group:"handlers"`),
			),
			handlers.NewMiddlewareHandler,
			services.NewSideShiftClient,
			func(log *zap.Logger) services.PriceEstimator {
				return services.NewPriceEstimator(services.DefaultRates, log)
			},
			func() services.CampaignService {
				return services.NewCampaignService(models.Campaigns)
			},
			services.NewAssetService,
			services.NewQuoteService,
			services.NewSwapService,
			services.NewMetricsService,
			services.NewSchedulerService,
			services.NewDonationService,
			newWalletProvider,
			NewScheduler,
			NewLogger,
		),
		fx.Invoke(func(*http.Server) {}),
	}
}

func newWalletProvider(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) wallet.Provider {
	provider := wallet.NewProvider(cfg, log)
	lc.Append(fx.StopHook(provider.Close))
	return provider
}
