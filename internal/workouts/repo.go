package workouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitjournal/internal/telemetry/tracing"
	"github.com/2beens/fitjournal/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrPlanNotFound     = errors.New("workout plan not found")
	ErrExerciseNotFound = errors.New("exercise not found")
)

const planColumns = `
	p.id, p.name, p.description, p.owner_id,
	COALESCE((SELECT SUM(e.estimated_minutes) FROM exercise e WHERE e.plan_id = p.id), 0)`

const exerciseColumns = `id, plan_id, name, sets, reps, rest_interval, estimated_minutes, completed`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddPlan(ctx context.Context, plan Plan) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addPlan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO workout_plan (name, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`,
		plan.Name, plan.Description, plan.OwnerID,
	).Scan(&plan.ID)
	if err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}

	plan.EstimatedMinutes = 0
	return &plan, nil
}

func (r *Repo) GetPlan(ctx context.Context, id int) (_ *Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.getPlan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("plan-id", id))

	row := r.db.QueryRow(ctx, `SELECT `+planColumns+` FROM workout_plan p WHERE p.id = $1`, id)

	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("scan plan: %w", err)
	}
	return plan, nil
}

func (r *Repo) ListPlans(ctx context.Context) (_ []Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listPlans")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT `+planColumns+` FROM workout_plan p ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]Plan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, *plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("plans", len(plans)))
	return plans, nil
}

func (r *Repo) AddExercise(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("plan-id", exercise.PlanID))

	err = r.db.QueryRow(ctx, `
		INSERT INTO exercise (plan_id, name, sets, reps, rest_interval, estimated_minutes, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		exercise.PlanID,
		exercise.Name,
		exercise.Sets,
		exercise.Reps,
		exercise.RestInterval,
		exercise.EstimatedMinutes,
		exercise.Completed,
	).Scan(&exercise.ID)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("insert exercise: %w", err)
	}

	return &exercise, nil
}

// ExercisesByPlan returns the plan's exercises in insertion order.
func (r *Repo) ExercisesByPlan(ctx context.Context, planID int) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.exercisesByPlan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("plan-id", planID))

	rows, err := r.db.Query(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercise
		WHERE plan_id = $1
		ORDER BY id
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]Exercise, 0)
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, *exercise)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

// ToggleExercise flips the completed flag of the exercise, only when it belongs to planID.
// The flip happens inside a single statement, so concurrent toggles never read a stale value.
func (r *Repo) ToggleExercise(ctx context.Context, planID, exerciseID int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.toggleExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("plan-id", planID),
		attribute.Int("exercise-id", exerciseID),
	)

	row := r.db.QueryRow(ctx, `
		UPDATE exercise
		SET completed = NOT completed
		WHERE id = $1 AND plan_id = $2
		RETURNING `+exerciseColumns,
		exerciseID, planID,
	)

	exercise, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("toggle exercise: %w", err)
	}
	return exercise, nil
}

func scanPlan(row pgx.Row) (*Plan, error) {
	var plan Plan
	if err := row.Scan(
		&plan.ID,
		&plan.Name,
		&plan.Description,
		&plan.OwnerID,
		&plan.EstimatedMinutes,
	); err != nil {
		return nil, err
	}
	return &plan, nil
}

func scanExercise(row pgx.Row) (*Exercise, error) {
	var exercise Exercise
	if err := row.Scan(
		&exercise.ID,
		&exercise.PlanID,
		&exercise.Name,
		&exercise.Sets,
		&exercise.Reps,
		&exercise.RestInterval,
		&exercise.EstimatedMinutes,
		&exercise.Completed,
	); err != nil {
		return nil, err
	}
	return &exercise, nil
}
