package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"workspace-disputes-be/internal/dto"
	"workspace-disputes-be/internal/entity"
	"workspace-disputes-be/internal/pkg/logger"
	"workspace-disputes-be/internal/repository/specification"
	"workspace-disputes-be/internal/repository/unitofwork"

	"github.com/redis/go-redis/v9"
)

const (
	statsCacheKey = "disputes:stats"
	statsCacheTTL = 60 * time.Second
)

type IStatsService interface {
	GetStats(ctx context.Context) (*dto.DisputeStatsResponse, error)
}

// statsService aggregates dispute counts for the admin dashboard. The
// aggregate is recomputed at most once per TTL; a short-lived Redis
// snapshot absorbs dashboard polling between recomputes.
type statsService struct {
	uowFactory unitofwork.RepositoryFactory
	rdb        *redis.Client // nil disables caching
	logger     logger.ILogger
}

func NewStatsService(uowFactory unitofwork.RepositoryFactory, rdb *redis.Client, log logger.ILogger) IStatsService {
	return &statsService{
		uowFactory: uowFactory,
		rdb:        rdb,
		logger:     log,
	}
}

func (s *statsService) GetStats(ctx context.Context) (*dto.DisputeStatsResponse, error) {
	if cached := s.readSnapshot(ctx); cached != nil {
		return cached, nil
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	s.writeSnapshot(ctx, stats)
	return stats, nil
}

func (s *statsService) readSnapshot(ctx context.Context) *dto.DisputeStatsResponse {
	if s.rdb == nil {
		return nil
	}

	raw, err := s.rdb.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("StatsService", "Failed to read stats snapshot", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}

	var stats dto.DisputeStatsResponse
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("StatsService", "Discarding corrupt stats snapshot", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return &stats
}

func (s *statsService) writeSnapshot(ctx context.Context, stats *dto.DisputeStatsResponse) {
	if s.rdb == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err(); err != nil {
		s.logger.Warn("StatsService", "Failed to write stats snapshot", map[string]interface{}{"error": err.Error()})
	}
}

func (s *statsService) computeStats(ctx context.Context) (*dto.DisputeStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.DisputeRepository()

	stats := &dto.DisputeStatsResponse{
		ByStatus:   make(map[string]int64, len(entity.AllDisputeStatuses())),
		ByType:     make(map[string]int64, len(entity.AllDisputeTypes())),
		ByPriority: make(map[string]int64, len(entity.AllDisputePriorities())),
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Total = total

	// Every enum value gets a bucket, zeroed when empty, so the response
	// shape never depends on the data.
	for _, status := range entity.AllDisputeStatuses() {
		count, err := repo.Count(ctx, specification.Filter("status", string(status)))
		if err != nil {
			return nil, err
		}
		stats.ByStatus[string(status)] = count
	}
	for _, disputeType := range entity.AllDisputeTypes() {
		count, err := repo.Count(ctx, specification.Filter("type", string(disputeType)))
		if err != nil {
			return nil, err
		}
		stats.ByType[string(disputeType)] = count
	}
	for _, priority := range entity.AllDisputePriorities() {
		count, err := repo.Count(ctx, specification.Filter("priority", string(priority)))
		if err != nil {
			return nil, err
		}
		stats.ByPriority[string(priority)] = count
	}

	stats.Pending = stats.ByStatus[string(entity.DisputeStatusPending)]
	stats.UnderReview = stats.ByStatus[string(entity.DisputeStatusUnderReview)]
	stats.Resolved = stats.ByStatus[string(entity.DisputeStatusResolved)]

	escalated, err := repo.Count(ctx, specification.Filter("is_escalated", true))
	if err != nil {
		return nil, err
	}
	stats.Escalated = escalated

	resolvedDisputes, err := repo.FindAll(ctx, specification.Filter("status", string(entity.DisputeStatusResolved)))
	if err != nil {
		return nil, err
	}
	stats.AvgResolutionTime = meanResolutionHours(resolvedDisputes)

	return stats, nil
}

// meanResolutionHours averages (resolvedAt - createdAt) over resolved
// disputes, in hours rounded to 2 decimals. Zero when nothing resolved.
func meanResolutionHours(disputes []*entity.Dispute) float64 {
	var sum float64
	var n int
	for _, d := range disputes {
		if d.ResolvedAt == nil {
			continue
		}
		sum += d.ResolvedAt.Sub(d.CreatedAt).Hours()
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*100) / 100
}
