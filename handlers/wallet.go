package handlers

import (
	"net/http"

	"github.com/2HgO/chainrelief-go/errors"
	"github.com/2HgO/chainrelief-go/types/requests"
	"github.com/2HgO/chainrelief-go/types/responses"
	"github.com/2HgO/chainrelief-go/utils"
	"github.com/2HgO/chainrelief-go/wallet"
	"go.uber.org/zap"
)

type WalletHandler interface {
	FetchWallet(w http.ResponseWriter, r *http.Request)

	ServeHttp(*http.ServeMux)
}

func NewWalletHandler(walletProvider wallet.Provider, middlewares MiddleWareHandler, log *zap.Logger) WalletHandler {
	return &walletHandler{
		handler: handler{walletProvider: walletProvider, middlewares: middlewares, log: log},
	}
}

type walletHandler struct {
	handler
}

func (h *walletHandler) ServeHttp(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/wallets/{address}", h.middlewares.Attach(h.FetchWallet))
}

func (h *walletHandler) FetchWallet(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.FetchWalletRequest](r)

	balance, err := h.walletProvider.Balance(r.Context(), req.Address)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}
	chainID, err := h.walletProvider.ChainID(r.Context())
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	defaultChain := h.walletProvider.DefaultChainID()
	utils.JSON(w, 200, responses.Successful(&responses.WalletResponseData{
		Address:        req.Address,
		ChainID:        chainID,
		SupportedChain: h.walletProvider.IsSupportedChain(chainID),
		DefaultChainID: defaultChain,
		OnDefaultChain: chainID == defaultChain,
		BalanceWei:     balance,
		Balance:        utils.ApproximateAmount("ETH", wallet.ToEther(balance)).String(),
	}))
}
