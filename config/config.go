package config

import (
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type SideShiftConfig struct {
	APIKey          string
	Secret          string
	BaseURL         string
	AffiliateID     string
	EnableRealAPI   bool
	UserIP          string
	FallbackEnabled bool
	Timeout         time.Duration
}

type NetworkConfig struct {
	DefaultChainID  int64
	SupportedChains []int64
	RPCURL          string
}

type FeatureFlags struct {
	EnableTestnet   bool
	EnableAnalytics bool
}

type QuoteConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// Config holds the application configuration
type Config struct {
	SideShift              SideShiftConfig
	Network                NetworkConfig
	CommissionRate         float64
	Features               FeatureFlags
	Quote                  QuoteConfig
	SettlementPollInterval time.Duration
	Server                 ServerConfig
	VerificationBaseURL    string
	Development            bool
}

// LiveMode reports whether requests go to the swap provider. A missing API key
// forces all-mock mode.
func (c *Config) LiveMode() bool {
	return c.SideShift.EnableRealAPI && c.SideShift.APIKey != ""
}

// Sepolia, Polygon Amoy, BSC testnet, Avalanche Fuji
var testnetChains = []int64{11155111, 80002, 97, 43113}

// IsSupportedChain reports whether chainID is one of the configured EVM chains.
// Testnet chains are accepted only when features.enable_testnet is set.
func (c *Config) IsSupportedChain(chainID int64) bool {
	if slices.Contains(c.Network.SupportedChains, chainID) {
		return true
	}
	return c.Features.EnableTestnet && slices.Contains(testnetChains, chainID)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sideshift.api_key", "")
	v.SetDefault("sideshift.secret", "")
	v.SetDefault("sideshift.base_url", "https://sideshift.ai/api/v2")
	v.SetDefault("sideshift.affiliate_id", "")
	v.SetDefault("sideshift.enable_real_api", true)
	v.SetDefault("sideshift.user_ip", "")
	v.SetDefault("sideshift.fallback_enabled", true)
	v.SetDefault("sideshift.timeout", 15*time.Second)

	v.SetDefault("network.default_chain_id", 1)
	// Ethereum, Polygon, BSC, Avalanche
	v.SetDefault("network.supported_chains", []int{1, 137, 56, 43114})
	v.SetDefault("network.rpc_url", "")

	v.SetDefault("commission.rate", 0.005)

	v.SetDefault("features.enable_testnet", false)
	v.SetDefault("features.enable_analytics", true)

	v.SetDefault("quote.ttl", 5*time.Minute)
	v.SetDefault("quote.sweep_interval", 5*time.Second)
	v.SetDefault("settlement.poll_interval", 30*time.Second)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("receipt.verification_base_url", "https://chainrelief.vercel.app/verify")
	v.SetDefault("log.development", false)
}

// Load reads configuration from environment variables and an optional config file
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom builds a Config from v, applying defaults, environment variables
// (CHAINRELIEF_SIDESHIFT_API_KEY, ...) and chainrelief.yaml when present.
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.SetConfigName("chainrelief")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("CHAINRELIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	chains := v.GetIntSlice("network.supported_chains")
	supported := make([]int64, 0, len(chains))
	for _, id := range chains {
		supported = append(supported, int64(id))
	}

	cfg := &Config{
		SideShift: SideShiftConfig{
			APIKey:          v.GetString("sideshift.api_key"),
			Secret:          v.GetString("sideshift.secret"),
			BaseURL:         strings.TrimRight(v.GetString("sideshift.base_url"), "/"),
			AffiliateID:     v.GetString("sideshift.affiliate_id"),
			EnableRealAPI:   v.GetBool("sideshift.enable_real_api"),
			UserIP:          v.GetString("sideshift.user_ip"),
			FallbackEnabled: v.GetBool("sideshift.fallback_enabled"),
			Timeout:         v.GetDuration("sideshift.timeout"),
		},
		Network: NetworkConfig{
			DefaultChainID:  v.GetInt64("network.default_chain_id"),
			SupportedChains: supported,
			RPCURL:          v.GetString("network.rpc_url"),
		},
		CommissionRate: v.GetFloat64("commission.rate"),
		Features: FeatureFlags{
			EnableTestnet:   v.GetBool("features.enable_testnet"),
			EnableAnalytics: v.GetBool("features.enable_analytics"),
		},
		Quote: QuoteConfig{
			TTL:           v.GetDuration("quote.ttl"),
			SweepInterval: v.GetDuration("quote.sweep_interval"),
		},
		SettlementPollInterval: v.GetDuration("settlement.poll_interval"),
		Server: ServerConfig{
			Addr:           v.GetString("server.addr"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		},
		VerificationBaseURL: strings.TrimRight(v.GetString("receipt.verification_base_url"), "/"),
		Development:         v.GetBool("log.development"),
	}

	return cfg, nil
}
