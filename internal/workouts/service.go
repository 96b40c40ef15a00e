package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitjournal/internal/telemetry/metrics"
	"github.com/2beens/fitjournal/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const plansListCacheKey = "plans::all"

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts_test

type plansRepo interface {
	AddPlan(ctx context.Context, plan Plan) (*Plan, error)
	GetPlan(ctx context.Context, id int) (*Plan, error)
	ListPlans(ctx context.Context) ([]Plan, error)
	AddExercise(ctx context.Context, exercise Exercise) (*Exercise, error)
	ExercisesByPlan(ctx context.Context, planID int) ([]Exercise, error)
	ToggleExercise(ctx context.Context, planID, exerciseID int) (*Exercise, error)
}

type Service struct {
	repo    plansRepo
	cache   *freecache.Cache
	metrics *metrics.Manager
	// 0 disables caching
	cacheExpireSeconds int
}

func NewService(repo plansRepo, cacheTTL time.Duration, metricsManager *metrics.Manager) *Service {
	megabyte := 1024 * 1024
	cacheSize := 10 * megabyte

	return &Service{
		repo:               repo,
		cache:              freecache.NewCache(cacheSize),
		metrics:            metricsManager,
		cacheExpireSeconds: cacheExpireSeconds(cacheTTL),
	}
}

// cacheExpireSeconds rounds the TTL up to whole seconds. freecache treats 0 as "never expire".
func cacheExpireSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	return int((ttl + time.Second - 1) / time.Second)
}

// ListPlans returns all plans, served from the cache while it is fresh.
func (s *Service) ListPlans(ctx context.Context) (_ []Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.listPlans")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if plansBytes, err := s.cache.Get([]byte(plansListCacheKey)); err == nil {
		var plans []Plan
		if err := json.Unmarshal(plansBytes, &plans); err == nil {
			span.SetAttributes(attribute.Bool("cache-hit", true))
			return plans, nil
		} else {
			log.Errorf("failed to unmarshal plans from cache: %s", err)
		}
	}

	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	if s.cacheExpireSeconds > 0 {
		plansBytes, err := json.Marshal(plans)
		if err != nil {
			log.Errorf("failed to marshal plans for cache: %s", err)
			return plans, nil
		}
		if err := s.cache.Set([]byte(plansListCacheKey), plansBytes, s.cacheExpireSeconds); err != nil {
			log.Errorf("failed to write plans cache: %s", err)
		}
	}

	return plans, nil
}

func (s *Service) CreatePlan(ctx context.Context, ownerID int, req NewPlanRequest) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.createPlan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	plan := Plan{
		Name:    strings.TrimSpace(req.Name),
		OwnerID: ownerID,
	}
	if description := strings.TrimSpace(req.Description); description != "" {
		plan.Description = &description
	}

	added, err := s.repo.AddPlan(ctx, plan)
	if err != nil {
		return nil, err
	}

	s.invalidatePlans()
	s.metrics.CounterPlans.Inc()
	return added, nil
}

// AddExercise adds an exercise to a plan owned by ownerID.
// Plans owned by someone else are reported as not found.
func (s *Service) AddExercise(ctx context.Context, ownerID, planID int, req NewExerciseRequest) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.addExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("plan-id", planID))

	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.OwnerID != ownerID {
		return nil, ErrPlanNotFound
	}

	estimatedMinutes := DefaultExerciseMinutes
	if req.EstimatedMinutes != nil {
		estimatedMinutes = *req.EstimatedMinutes
	}

	added, err := s.repo.AddExercise(ctx, Exercise{
		PlanID:           planID,
		Name:             strings.TrimSpace(req.Name),
		Sets:             req.Sets,
		Reps:             req.Reps,
		RestInterval:     strings.TrimSpace(req.RestInterval),
		EstimatedMinutes: estimatedMinutes,
	})
	if err != nil {
		return nil, err
	}

	s.invalidatePlans()
	return added, nil
}

// PlanDetail loads the plan, its exercises and progress, plus the full plans list.
// A nil planID yields an empty detail with the plans list only.
func (s *Service) PlanDetail(ctx context.Context, planID *int) (_ *PlanDetail, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.planDetail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	detail := &PlanDetail{}
	if planID != nil {
		span.SetAttributes(attribute.Int("plan-id", *planID))

		detail.Plan, err = s.repo.GetPlan(ctx, *planID)
		if err != nil {
			return nil, err
		}
		detail.Exercises, err = s.repo.ExercisesByPlan(ctx, *planID)
		if err != nil {
			return nil, fmt.Errorf("plan exercises: %w", err)
		}
		detail.Progress = ComputeProgress(detail.Exercises, float64(detail.Plan.EstimatedMinutes))
	}

	detail.Plans, err = s.ListPlans(ctx)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// ToggleExercise flips completion of an exercise belonging to planID.
func (s *Service) ToggleExercise(ctx context.Context, planID, exerciseID int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.toggleExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exercise, err := s.repo.ToggleExercise(ctx, planID, exerciseID)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			log.Tracef("toggle exercise %d of plan %d: not found", exerciseID, planID)
		}
		return nil, err
	}

	s.metrics.CounterExerciseToggles.Inc()
	log.Debugf("exercise %d of plan %d toggled, completed: %t", exerciseID, planID, exercise.Completed)
	return exercise, nil
}

func (s *Service) invalidatePlans() {
	s.cache.Del([]byte(plansListCacheKey))
}
