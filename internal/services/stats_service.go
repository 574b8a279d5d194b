package services

import (
	"context"
	"log"
	"time"

	"pantoufles-app/internal/models"
	"pantoufles-app/internal/repository"
	"pantoufles-app/internal/utils"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 5 * time.Minute
)

// DashboardStats are the counters shown on the admin home tab.
type DashboardStats struct {
	Clients            int64 `json:"clients"`
	Intervenants       int64 `json:"intervenants"`
	MissionsInProgress int64 `json:"missions_in_progress"`
}

// StatsService serves dashboard counters through a Redis cache.
type StatsService struct {
	clientRepo      repository.ClientRepository
	intervenantRepo repository.IntervenantRepository
	missionRepo     repository.MissionRepository
	cache           *utils.RedisClient
}

func NewStatsService(
	clientRepo repository.ClientRepository,
	intervenantRepo repository.IntervenantRepository,
	missionRepo repository.MissionRepository,
	cache *utils.RedisClient,
) *StatsService {
	return &StatsService{
		clientRepo:      clientRepo,
		intervenantRepo: intervenantRepo,
		missionRepo:     missionRepo,
		cache:           cache,
	}
}

func (s *StatsService) GetStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	if err := s.cache.Get(ctx, statsCacheKey, &stats); err == nil {
		return stats, nil
	}
	return s.refresh(ctx)
}

// Invalidate drops the cached counters after a mutation.
func (s *StatsService) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		log.Printf("[CACHE] Failed to invalidate stats cache: %v", err)
	}
}

func (s *StatsService) refresh(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.Clients, err = s.clientRepo.Count(ctx); err != nil {
		return stats, err
	}
	if stats.Intervenants, err = s.intervenantRepo.Count(ctx); err != nil {
		return stats, err
	}
	if stats.MissionsInProgress, err = s.missionRepo.CountByStatus(ctx, models.StatusInProgress); err != nil {
		return stats, err
	}

	if err := s.cache.Set(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
		log.Printf("[CACHE] Failed to store stats cache: %v", err)
	}
	return stats, nil
}

// StartRefresher keeps the cached counters warm in the background.
func (s *StatsService) StartRefresher(ctx context.Context) {
	ticker := time.NewTicker(statsCacheTTL)
	go func() {
		for {
			select {
			case <-ticker.C:
				if _, err := s.refresh(ctx); err != nil {
					log.Printf("[CACHE] Failed to refresh stats cache: %v", err)
				}
			case <-ctx.Done():
				log.Println("[CACHE] Stopping stats refresher")
				ticker.Stop()
				return
			}
		}
	}()
}
