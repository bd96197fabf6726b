package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/models"
	"github.com/2HgO/chainrelief-go/services"
	"github.com/2HgO/chainrelief-go/types/requests"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	networkFilter string
	symbolFilter  string
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List supported assets",
	Long: `List the assets that can be swapped, grouped by network. The provider catalog is
used in live mode; otherwise the built-in list is shown.

Examples:
  chainrelief assets
  chainrelief assets --network ethereum
  chainrelief assets --symbol usdc --json`,
	Args: cobra.NoArgs,
	Run:  runAssets,
}

func init() {
	rootCmd.AddCommand(assetsCmd)

	assetsCmd.Flags().StringVar(&networkFilter, "network", "", "Only list assets on this network")
	assetsCmd.Flags().StringVar(&symbolFilter, "symbol", "", "Only list assets with this symbol")
}

func runAssets(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	log := cliLogger(cmd)
	assets := services.NewAssetService(cfg, services.NewSideShiftClient(cfg), log)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Loading assets..."
		s.Start()
	}
	list, err := assets.ListAssets(cmd.Context(), &requests.FetchAssetsRequest{Network: networkFilter, Symbol: symbolFilter})
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(list, "", "  ")
		fmt.Println(string(data))
		return
	}
	if len(list) == 0 {
		printSuccess("No assets match the given filters.")
		return
	}
	displayAssets(os.Stdout, list)
}

func displayAssets(w io.Writer, assets []models.Asset) {
	color.New(color.Bold).Fprintf(w, "\n%d supported assets\n\n", len(assets))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSYMBOL\tNAME\tNETWORK\tTYPE\tDECIMALS")
	for _, asset := range assets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", asset.ID, asset.Symbol, asset.Name, cases.Title(language.English).String(asset.Network), asset.Type, asset.Decimals)
	}
	tw.Flush()
	fmt.Fprintln(w)
}
