package services

import (
	"context"

	"github.com/bmw-wellness/apiserver/internal/plan"
	"github.com/bmw-wellness/apiserver/types"
)

// ActivityRepository defines persistence operations for the catalog.
type ActivityRepository interface {
	List(ctx context.Context) ([]types.WellnessActivity, error)
	Seed(ctx context.Context, activities []types.WellnessActivity) (int, error)
}

// PlanService builds recommendation plans from the stored catalog.
type PlanService struct {
	repo ActivityRepository
}

func NewPlanService(repo ActivityRepository) *PlanService {
	return &PlanService{repo: repo}
}

// SeedCatalog inserts the default catalog rows that are missing.
func (s *PlanService) SeedCatalog(ctx context.Context) (int, error) {
	return s.repo.Seed(ctx, plan.DefaultCatalog())
}

// Plan classifies score and selects recommendations from the catalog.
func (s *PlanService) Plan(ctx context.Context, score int) (plan.Plan, error) {
	catalog, err := s.repo.List(ctx)
	if err != nil {
		return plan.Plan{}, err
	}
	return plan.Build(score, catalog), nil
}
