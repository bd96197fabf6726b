package responses

import "math/big"

type WalletResponseData struct {
	Address        string   `json:"address"`
	ChainID        int64    `json:"chain_id"`
	SupportedChain bool     `json:"supported_chain"`
	DefaultChainID int64    `json:"default_chain_id"`
	OnDefaultChain bool     `json:"on_default_chain"`
	BalanceWei     *big.Int `json:"balance_wei"`
	Balance        string   `json:"balance"`
}
