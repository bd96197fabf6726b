package models

// Asset is a swappable coin on a specific network. Assets are immutable once listed.
type Asset struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Network         string  `json:"network"`
	Symbol          string  `json:"symbol"`
	Decimals        int     `json:"decimals"`
	Type            string  `json:"type"`
	ContractAddress *string `json:"contract_address,omitempty"`
}

func strPtr(s string) *string { return &s }

// FallbackAssets is served whenever the provider catalog is unavailable.
var FallbackAssets = []Asset{
	{ID: "eth-mainnet", Name: "Ethereum", Network: "ethereum", Symbol: "ETH", Decimals: 18, Type: "native"},
	{ID: "btc-mainnet", Name: "Bitcoin", Network: "bitcoin", Symbol: "BTC", Decimals: 8, Type: "native"},
	{ID: "usdc-ethereum", Name: "USD Coin", Network: "ethereum", Symbol: "USDC", Decimals: 6, Type: "token", ContractAddress: strPtr("0xA0b86a33E6441d0c6C6E2f7d5e6e3c8b8b8b8b8b")},
	{ID: "usdt-ethereum", Name: "Tether", Network: "ethereum", Symbol: "USDT", Decimals: 6, Type: "token", ContractAddress: strPtr("0xdAC17F958D2ee523a2206206994597C13D831ec7")},
	{ID: "dai-ethereum", Name: "Dai Stablecoin", Network: "ethereum", Symbol: "DAI", Decimals: 18, Type: "token", ContractAddress: strPtr("0x6B175474E89094C44Da98b954EedeAC495271d0F")},
	{ID: "matic-polygon", Name: "Polygon", Network: "polygon", Symbol: "MATIC", Decimals: 18, Type: "native"},
	{ID: "bnb-bsc", Name: "BNB", Network: "bsc", Symbol: "BNB", Decimals: 18, Type: "native"},
	{ID: "avax-avalanche", Name: "Avalanche", Network: "avalanche", Symbol: "AVAX", Decimals: 18, Type: "native"},
}
