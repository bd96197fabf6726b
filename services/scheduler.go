package services

import (
	"context"
	"sync"
	"time"

	"github.com/2HgO/chainrelief-go/config"
	"github.com/2HgO/chainrelief-go/models"
	"github.com/2HgO/chainrelief-go/types/requests"
	"go.uber.org/zap"

	"github.com/madflojo/tasks"
)

const (
	quoteSweepTaskID         = "quote-sweep"
	settlementTaskPrefix     = "settlement:"
	defaultSweepInterval     = 5 * time.Second
	defaultSettlementPolling = 30 * time.Second
)

type settlementIDKey struct{}

type SchedulerService interface {
	DropTask(taskID string)
	WatchSettlement(settlementID string, onTerminal func(*models.Settlement))
	Watching(settlementID string) bool
}

// NewSchedulerService registers the periodic quote sweep on the given scheduler.
func NewSchedulerService(cfg *config.Config, scheduler *tasks.Scheduler, quotes QuoteService, swaps SwapService, log *zap.Logger) (SchedulerService, error) {
	s := &schedulerService{
		service: service{
			config: cfg,
			quotes: quotes,
			swaps:  swaps,
			log:    log,
		},
		scheduler: scheduler,
	}

	interval := cfg.Quote.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	err := scheduler.AddWithID(quoteSweepTaskID, &tasks.Task{
		Interval: interval,
		TaskFunc: func() error {
			quotes, consumed := s.quotes.SweepExpired(), s.swaps.SweepConsumed()
			if quotes > 0 || consumed > 0 {
				s.log.Debug("swept expired quotes", zap.Int("quotes", quotes), zap.Int("consumed", consumed))
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

type schedulerService struct {
	service
	scheduler *tasks.Scheduler
}

func (s *schedulerService) DropTask(taskID string) {
	s.scheduler.Del(taskID)
}

// WatchSettlement polls the provider until the settlement reaches a terminal
// status, then hands it to onTerminal exactly once.
func (s *schedulerService) WatchSettlement(settlementID string, onTerminal func(*models.Settlement)) {
	interval := s.config.SettlementPollInterval
	if interval <= 0 {
		interval = defaultSettlementPolling
	}
	taskID := settlementTaskPrefix + settlementID
	ctx := context.WithValue(context.Background(), settlementIDKey{}, settlementID)
	var once sync.Once

	err := s.scheduler.AddWithID(taskID, &tasks.Task{
		TaskContext: tasks.TaskContext{Context: ctx},
		Interval:    interval,
		FuncWithTaskContext: func(t tasks.TaskContext) error {
			id, _ := t.Context.Value(settlementIDKey{}).(string)
			settlement, err := s.swaps.GetOrderStatus(t.Context, &requests.FetchSettlementRequest{SettlementID: id})
			if err != nil {
				s.log.Error("polling settlement status", zap.String("settlement_id", id), zap.Error(err))
				return nil
			}
			if !settlement.Status.Terminal() {
				return nil
			}
			once.Do(func() {
				s.DropTask(taskID)
				s.log.Info("settlement reached terminal status", zap.String("settlement_id", id), zap.String("status", string(settlement.Status)))
				onTerminal(settlement)
			})
			return nil
		},
	})
	if err != nil {
		s.log.Error("scheduling settlement polling", zap.String("settlement_id", settlementID), zap.Error(err))
	}
}

func (s *schedulerService) Watching(settlementID string) bool {
	_, ok := s.scheduler.Tasks()[settlementTaskPrefix+settlementID]
	return ok
}
