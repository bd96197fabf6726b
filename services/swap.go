package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/errors"
	"github.com/2HgO/chainrelief-go/models"
	"github.com/2HgO/chainrelief-go/sideshift"
	"github.com/2HgO/chainrelief-go/types/requests"
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"
)

const (
	settlementArrivalDelay = 2 * time.Minute
	minRecipientLength     = 10
)

type SwapService interface {
	ExecuteSwap(ctx context.Context, quote *models.Quote, recipientAddress string) (*models.SettlementResult, error)
	ExecuteQuote(ctx context.Context, req *requests.ExecuteSwapRequest) (*models.SettlementResult, error)
	GetOrderStatus(ctx context.Context, req *requests.FetchSettlementRequest) (*models.Settlement, error)
	SweepConsumed() int
}

func NewSwapService(cfg *config.Config, client *sideshift.Client, prices PriceEstimator, quotes QuoteService, log *zap.Logger) SwapService {
	return &swapService{
		service: service{
			config: cfg,
			client: client,
			prices: prices,
			quotes: quotes,
			log:    log,
			now:    time.Now,
		},
		consumed:    make(map[string]time.Time),
		settlements: make(map[string]*models.Settlement),
	}
}

type swapService struct {
	service

	mu          sync.RWMutex
	consumed    map[string]time.Time // executed quote id -> quote expiry
	settlements map[string]*models.Settlement
}

// mapShiftStatus folds provider shift states into settlement states.
func mapShiftStatus(status string) models.SettlementStatus {
	switch strings.ToLower(status) {
	case "settled", "complete", "completed":
		return models.SettlementCompleted
	case "refund", "refunding", "refunded", "expired", "failed":
		return models.SettlementFailed
	default:
		return models.SettlementPending
	}
}

func pseudoTxHash() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(errors.NewFatalError(err))
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(buf)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// SweepConsumed forgets executed quote ids once their quote has expired; expiry
// alone then rejects any further execution.
func (s *swapService) SweepConsumed() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, expiresAt := range s.consumed {
		if !now.Before(expiresAt) {
			delete(s.consumed, id)
			removed++
		}
	}
	return removed
}

func (s *swapService) ExecuteQuote(ctx context.Context, req *requests.ExecuteSwapRequest) (*models.SettlementResult, error) {
	quote, err := s.quotes.GetQuote(ctx, &requests.FetchQuoteRequest{QuoteID: req.QuoteID})
	if err != nil {
		return nil, err
	}
	return s.ExecuteSwap(ctx, quote, req.RecipientAddress)
}

// ExecuteSwap commits a quote. A quote id yields at most one settlement; a failed
// live attempt with fallback disabled releases the id so the caller may retry.
func (s *swapService) ExecuteSwap(ctx context.Context, quote *models.Quote, recipientAddress string) (*models.SettlementResult, error) {
	if quote == nil || quote.ID == "" {
		return nil, errors.NewValidationError("quote is required")
	}
	if len(strings.TrimSpace(recipientAddress)) < minRecipientLength {
		return nil, errors.NewValidationError(fmt.Sprintf("recipient_address must be at least %d characters long", minRecipientLength))
	}
	if quote.Expired(s.now()) {
		return nil, errors.NewQuoteExpiredError(quote.ID)
	}

	s.mu.Lock()
	if _, ok := s.consumed[quote.ID]; ok {
		s.mu.Unlock()
		return nil, errors.NewQuoteConsumedError(quote.ID)
	}
	s.consumed[quote.ID] = quote.ExpiresAt
	s.mu.Unlock()

	var result *models.SettlementResult
	if s.config.LiveMode() {
		settlement, err := s.liveSettlement(ctx, quote, recipientAddress)
		switch {
		case err == nil:
			result = &models.SettlementResult{Source: models.SourceLive, Settlement: settlement}
		case !s.config.SideShift.FallbackEnabled:
			s.mu.Lock()
			delete(s.consumed, quote.ID)
			s.mu.Unlock()
			return nil, errors.NewSwapExecutionError("swap provider could not execute the swap", err)
		default:
			s.log.Warn("swap provider shift failed, using simulated settlement",
				zap.String("quote_id", quote.ID),
				zap.Error(err),
			)
			result = &models.SettlementResult{Source: models.SourceSimulated, FallbackReason: err.Error(), Settlement: s.mockSettlement(quote, recipientAddress)}
		}
	} else {
		result = &models.SettlementResult{Source: models.SourceSimulated, FallbackReason: liveModeDisabled, Settlement: s.mockSettlement(quote, recipientAddress)}
	}

	s.mu.Lock()
	s.settlements[result.Settlement.ID] = result.Settlement
	s.mu.Unlock()

	s.log.Info("swap executed",
		zap.String("quote_id", quote.ID),
		zap.String("settlement_id", result.Settlement.ID),
		zap.String("status", string(result.Settlement.Status)),
		zap.String("source", string(result.Source)),
	)

	cp := *result.Settlement
	return &models.SettlementResult{Source: result.Source, FallbackReason: result.FallbackReason, Settlement: &cp}, nil
}

func (s *swapService) baseSettlement(quote *models.Quote, recipientAddress string) *models.Settlement {
	now := s.now()
	return &models.Settlement{
		QuoteID:          quote.ID,
		DepositAddress:   quote.DepositAddress,
		RecipientAddress: recipientAddress,
		DepositAmount:    quote.DepositAmount,
		SettleAmount:     quote.SettleAmount,
		DepositAsset:     quote.DepositAsset,
		SettleAsset:      quote.SettleAsset,
		Rate:             quote.Rate,
		Fee:              quote.Fee,
		NetworkFee:       quote.NetworkFee,
		USDValue:         s.prices.EstimateUSDValue(quote.SettleAsset, quote.SettleAmount),
		CreatedAt:        now,
		UpdatedAt:        now,
		EstimatedArrival: now.Add(settlementArrivalDelay),
	}
}

func (s *swapService) liveSettlement(ctx context.Context, quote *models.Quote, recipientAddress string) (*models.Settlement, error) {
	shift, err := s.client.CreateShift(ctx, &sideshift.ShiftRequest{
		QuoteID:   quote.ID,
		ToAddress: recipientAddress,
	})
	if err != nil {
		return nil, err
	}

	settlement := s.baseSettlement(quote, recipientAddress)
	settlement.ID = shift.ID
	settlement.TransactionID = shift.ID
	settlement.Source = models.SourceLive
	applyShift(settlement, shift)
	return settlement, nil
}

func applyShift(settlement *models.Settlement, shift *sideshift.Shift) {
	settlement.Status = mapShiftStatus(shift.Status)
	if shift.DepositHash != "" {
		settlement.DepositHash = shift.DepositHash
	}
	if shift.SettleHash != "" {
		settlement.SettleHash = shift.SettleHash
	}
	if shift.DepositAddress != "" {
		settlement.DepositAddress = shift.DepositAddress
	}
}

func (s *swapService) mockSettlement(quote *models.Quote, recipientAddress string) *models.Settlement {
	settlement := s.baseSettlement(quote, recipientAddress)
	settlement.ID = quote.ID
	settlement.Status = models.SettlementCompleted
	settlement.TransactionID = pseudoTxHash()
	settlement.DepositHash = pseudoTxHash()
	settlement.SettleHash = pseudoTxHash()
	settlement.Source = models.SourceSimulated
	return settlement
}

// GetOrderStatus is the only path through which a stored settlement changes status.
func (s *swapService) GetOrderStatus(ctx context.Context, req *requests.FetchSettlementRequest) (*models.Settlement, error) {
	s.mu.RLock()
	var snapshot models.Settlement
	stored, ok := s.settlements[req.SettlementID]
	if ok {
		snapshot = *stored
	}
	s.mu.RUnlock()

	if ok && (snapshot.Source != models.SourceLive || snapshot.Status.Terminal() || !s.config.LiveMode()) {
		return &snapshot, nil
	}
	if !ok && !s.config.LiveMode() {
		return nil, errors.NewNotFoundError(fmt.Sprintf("settlement %s not found", req.SettlementID))
	}

	shift, err := s.client.GetShift(ctx, req.SettlementID)
	if err != nil {
		if ok {
			s.log.Warn("refreshing settlement status", zap.String("settlement_id", req.SettlementID), zap.Error(err))
			return &snapshot, nil
		}
		var apiErr *sideshift.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("settlement %s not found", req.SettlementID))
		}
		return nil, errors.NewSwapExecutionError("could not look up settlement", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok = s.settlements[req.SettlementID]
	if !ok {
		stored = &models.Settlement{
			ID:               shift.ID,
			QuoteID:          shift.QuoteID,
			TransactionID:    shift.ID,
			RecipientAddress: shift.SettleAddress,
			Source:           models.SourceLive,
			CreatedAt:        s.now(),
		}
		if shift.CreatedAt != nil {
			stored.CreatedAt = *shift.CreatedAt
		}
		if shift.DepositAmount != nil {
			stored.DepositAmount = *shift.DepositAmount
		}
		if shift.SettleAmount != nil {
			stored.SettleAmount = *shift.SettleAmount
		}
		s.settlements[req.SettlementID] = stored
	}
	applyShift(stored, shift)
	stored.UpdatedAt = s.now()
	cp := *stored
	return &cp, nil
}
