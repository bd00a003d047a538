package usecase

import (
	"context"
	"fmt"

	"github.com/docmindhq/docmind/internal/core/domain"
	"github.com/docmindhq/docmind/internal/core/ports"
)

type StatsUseCase struct {
	repo ports.DocumentRepository
}

func NewStatsUseCase(repo ports.DocumentRepository) *StatsUseCase {
	return &StatsUseCase{repo: repo}
}

func (uc *StatsUseCase) Collect(ctx context.Context) (domain.UsageStats, error) {
	stats, err := uc.repo.Stats(ctx)
	if err != nil {
		return domain.UsageStats{}, fmt.Errorf("collect usage stats: %w", err)
	}
	return stats, nil
}
