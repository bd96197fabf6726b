package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/errors"
	"github.com/2HgO/chainrelief-go/models"
	"github.com/2HgO/chainrelief-go/sideshift"
	"github.com/2HgO/chainrelief-go/types/requests"
	"go.uber.org/zap"
)

type AssetService interface {
	ListAssets(ctx context.Context, req *requests.FetchAssetsRequest) ([]models.Asset, error)
	GetAsset(ctx context.Context, req *requests.FetchAssetRequest) (*models.Asset, error)
	ValidateAsset(ctx context.Context, assetID string) bool
}

func NewAssetService(cfg *config.Config, client *sideshift.Client, log *zap.Logger) AssetService {
	return &assetService{
		service: service{config: cfg, client: client, log: log},
	}
}

type assetService struct {
	service

	mu     sync.RWMutex
	cached []models.Asset
}

func (a *assetService) catalog(ctx context.Context) []models.Asset {
	a.mu.RLock()
	cached := a.cached
	a.mu.RUnlock()
	if cached != nil {
		return cached
	}

	if !a.config.LiveMode() {
		return models.FallbackAssets
	}

	coins, err := a.client.GetCoins(ctx)
	if err != nil {
		a.log.Warn("loading provider catalog, using fallback assets", zap.Error(err))
		return models.FallbackAssets
	}
	assets := assetsFromCoins(coins)
	if len(assets) == 0 {
		a.log.Warn("provider catalog is empty, using fallback assets")
		return models.FallbackAssets
	}

	a.mu.Lock()
	a.cached = assets
	a.mu.Unlock()
	a.log.Info("loaded provider catalog", zap.Int("assets", len(assets)))
	return assets
}

// assetsFromCoins expands each provider coin into one asset per network.
func assetsFromCoins(coins []sideshift.Coin) []models.Asset {
	assets := make([]models.Asset, 0, len(coins))
	for _, coin := range coins {
		networks := coin.Networks
		if len(networks) == 0 && coin.Network != "" {
			networks = []string{coin.Network}
		}
		symbol := coin.Symbol
		if symbol == "" {
			symbol = strings.ToUpper(coin.Coin)
		}
		for _, network := range networks {
			asset := models.Asset{
				ID:       fmt.Sprintf("%s-%s", strings.ToLower(coin.Coin), network),
				Name:     coin.Name,
				Network:  network,
				Symbol:   symbol,
				Decimals: coin.Decimals,
				Type:     "native",
			}
			if details, ok := coin.TokenDetails[network]; ok {
				contract := details.ContractAddress
				asset.ContractAddress = &contract
				asset.Decimals = details.Decimals
				asset.Type = "token"
			}
			if asset.Decimals == 0 {
				asset.Decimals = 18
			}
			assets = append(assets, asset)
		}
	}
	return assets
}

func (a *assetService) ListAssets(ctx context.Context, req *requests.FetchAssetsRequest) ([]models.Asset, error) {
	all := a.catalog(ctx)
	if req == nil || (req.Network == "" && req.Symbol == "") {
		return cloneAssets(all), nil
	}

	filtered := make([]models.Asset, 0, len(all))
	for _, asset := range all {
		if req.Network != "" && !strings.EqualFold(asset.Network, req.Network) {
			continue
		}
		if req.Symbol != "" && !strings.EqualFold(asset.Symbol, req.Symbol) {
			continue
		}
		filtered = append(filtered, asset)
	}
	return cloneAssets(filtered), nil
}

// cloneAssets copies assets so callers never alias the cached catalog.
func cloneAssets(assets []models.Asset) []models.Asset {
	out := make([]models.Asset, len(assets))
	copy(out, assets)
	for i := range out {
		if out[i].ContractAddress != nil {
			contract := *out[i].ContractAddress
			out[i].ContractAddress = &contract
		}
	}
	return out
}

func (a *assetService) GetAsset(ctx context.Context, req *requests.FetchAssetRequest) (*models.Asset, error) {
	for _, asset := range a.catalog(ctx) {
		if asset.ID == req.AssetID {
			return &cloneAssets([]models.Asset{asset})[0], nil
		}
	}
	return nil, errors.NewNotFoundError(fmt.Sprintf("asset %s not found", req.AssetID))
}

func (a *assetService) ValidateAsset(ctx context.Context, assetID string) bool {
	_, err := a.GetAsset(ctx, &requests.FetchAssetRequest{AssetID: assetID})
	return err == nil
}
