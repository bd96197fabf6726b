package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/models"
	"github.com/2HgO/chainrelief-go/parser"
	"github.com/2HgO/chainrelief-go/services"
	"github.com/2HgO/chainrelief-go/types/requests"
	"github.com/2HgO/chainrelief-go/utils"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fromNetwork string
	toNetwork   string
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <deposit-asset> to <settle-asset>",
	Short: "Request a swap quote",
	Long: `Request a swap quote from the swap provider, or a simulated quote when live mode is
disabled or the provider is unreachable.

When a symbol is listed on several networks the first catalog entry is used;
pin a network with --from-network / --to-network.

Examples:
  chainrelief quote 1 ETH to USDC
  chainrelief quote 0.01 BTC to USDC --to-network ethereum
  chainrelief quote 250 USDT to MATIC --to-network polygon --json`,
	Args: cobra.MinimumNArgs(4),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&fromNetwork, "from-network", "", "Network of the deposit asset (optional)")
	quoteCmd.Flags().StringVar(&toNetwork, "to-network", "", "Network of the settle asset (optional)")
}

func runQuote(cmd *cobra.Command, args []string) {
	command, err := parser.ParseQuoteCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}
	result, err := fetchQuote(cmd.Context(), cfg, cliLogger(cmd), command, fromNetwork, toNetwork)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}
	displayQuote(os.Stdout, result, command)
}

func fetchQuote(ctx context.Context, cfg *config.Config, log *zap.Logger, command *parser.QuoteCommand, depositNetwork, settleNetwork string) (*models.QuoteResult, error) {
	client := services.NewSideShiftClient(cfg)
	prices := services.NewPriceEstimator(services.DefaultRates, log)
	assets := services.NewAssetService(cfg, client, log)
	quotes := services.NewQuoteService(cfg, client, prices, log)

	deposit, err := resolveAsset(ctx, assets, command.DepositAsset, depositNetwork)
	if err != nil {
		return nil, err
	}
	settle, err := resolveAsset(ctx, assets, command.SettleAsset, settleNetwork)
	if err != nil {
		return nil, err
	}

	return quotes.RequestQuote(ctx, &requests.CreateQuoteRequest{
		DepositAsset:   deposit.ID,
		DepositNetwork: deposit.Network,
		SettleAsset:    settle.ID,
		SettleNetwork:  settle.Network,
		DepositAmount:  command.Amount,
	})
}

func resolveAsset(ctx context.Context, assets services.AssetService, symbol, network string) (*models.Asset, error) {
	matches, err := assets.ListAssets(ctx, &requests.FetchAssetsRequest{Symbol: symbol, Network: network})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		if network != "" {
			return nil, fmt.Errorf("asset %s is not supported on %s (try: chainrelief assets --symbol %s)", symbol, network, symbol)
		}
		return nil, fmt.Errorf("asset %s is not supported (try: chainrelief assets)", symbol)
	}
	return &matches[0], nil
}

func displayQuote(w io.Writer, result *models.QuoteResult, command *parser.QuoteCommand) {
	q := result.Quote

	bold := color.New(color.Bold)
	bold.Fprintln(w, "\nSwap quote")
	fmt.Fprintf(w, "  Quote ID:     %s\n", q.ID)
	fmt.Fprintf(w, "  You send:     %s %s (%s)\n", q.DepositAmount, command.DepositAsset, q.DepositNetwork)
	fmt.Fprintf(w, "  You receive:  ~%s %s (%s)\n", utils.ApproximateAmount(command.SettleAsset, q.SettleAmount), command.SettleAsset, q.SettleNetwork)
	fmt.Fprintf(w, "  Rate:         1 %s = %s %s\n", command.DepositAsset, q.Rate.RoundFloor(8), command.SettleAsset)
	fmt.Fprintf(w, "  Fee:          %s %s\n", q.Fee, command.DepositAsset)
	fmt.Fprintf(w, "  Network fee:  %s\n", q.NetworkFee)
	fmt.Fprintf(w, "  Deposit to:   %s\n", q.DepositAddress)
	if q.Memo != nil {
		fmt.Fprintf(w, "  Memo:         %s\n", *q.Memo)
	}
	fmt.Fprintf(w, "  Settlement:   %s\n", q.EstimatedSettlementTime)
	fmt.Fprintf(w, "  Expires at:   %s\n", q.ExpiresAt.Format(time.RFC3339))

	if result.IsLive() {
		color.New(color.FgGreen).Fprintln(w, "\nQuote provided by the swap provider.")
		return
	}
	warn := color.New(color.FgYellow)
	warn.Fprintln(w, "\nSimulated quote: no funds will move.")
	if result.FallbackReason != "" {
		warn.Fprintf(w, "  Reason: %s\n", result.FallbackReason)
	}
}
