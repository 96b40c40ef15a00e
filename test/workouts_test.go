//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/2beens/fitjournal/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestWorkoutPlanProgress() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	owner := s.registerUser(ctx)
	other := s.registerUser(ctx)

	status, body := s.postForm(ctx, "/plans", owner.Token, url.Values{"name": {"Push day"}})
	require.Equal(t, http.StatusCreated, status, string(body))
	var plan workouts.Plan
	require.NoError(t, json.Unmarshal(body, &plan))

	exercisesRoute := fmt.Sprintf("/plans/%d/exercises", plan.ID)
	status, _ = s.postForm(ctx, exercisesRoute, other.Token, url.Values{
		"name": {"Bench"}, "sets": {"3"}, "reps": {"10"}, "rest_interval": {"90s"},
	})
	assert.Equal(t, http.StatusNotFound, status)

	var exerciseIDs []int
	for _, name := range []string{"Bench", "Dips", "Flyes", "Pushups"} {
		status, body = s.postForm(ctx, exercisesRoute, owner.Token, url.Values{
			"name": {name}, "sets": {"3"}, "reps": {"10"}, "rest_interval": {"60s"}, "estimated_minutes": {"15"},
		})
		require.Equal(t, http.StatusCreated, status, string(body))
		var exercise workouts.Exercise
		require.NoError(t, json.Unmarshal(body, &exercise))
		exerciseIDs = append(exerciseIDs, exercise.ID)
	}

	detailRoute := fmt.Sprintf("/plans/detail?plan_id=%d", plan.ID)
	status, body = s.get(ctx, detailRoute, "")
	require.Equal(t, http.StatusOK, status)
	var detail workouts.PlanDetail
	require.NoError(t, json.Unmarshal(body, &detail))
	assert.Equal(t, 4, detail.Progress.TotalCount)
	assert.Zero(t, detail.Progress.ProgressPercent)
	assert.InDelta(t, 60, detail.Progress.TimeRemaining, 1e-9)

	toggle := func(exerciseID int) workouts.PlanDetail {
		status, body := s.postForm(ctx, detailRoute, "", url.Values{"exercise_id": {fmt.Sprint(exerciseID)}})
		require.Equal(t, http.StatusOK, status, string(body))
		var d workouts.PlanDetail
		require.NoError(t, json.Unmarshal(body, &d))
		return d
	}

	detail = toggle(exerciseIDs[0])
	assert.Equal(t, 1, detail.Progress.CompletedCount)
	assert.InDelta(t, 25, detail.Progress.ProgressPercent, 1e-9)
	assert.InDelta(t, 45, detail.Progress.TimeRemaining, 1e-9)

	detail = toggle(exerciseIDs[0])
	assert.Equal(t, 0, detail.Progress.CompletedCount)

	var completed bool
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT completed FROM exercise WHERE id = $1`, exerciseIDs[0],
	).Scan(&completed))
	assert.False(t, completed)

	// an exercise from another plan cannot be toggled through this one
	status, _ = s.postForm(ctx, "/plans/detail?plan_id=987654321", "", url.Values{"exercise_id": {fmt.Sprint(exerciseIDs[1])}})
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestBMR() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	status, body := s.postForm(ctx, "/bmr", "", url.Values{
		"weight_kg": {"70"}, "age": {"30"}, "sex": {"H"}, "height_cm": {"175"},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var res struct {
		BMR float64 `json:"bmr"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	assert.InDelta(t, 1695.36, res.BMR, 1e-9)

	status, _ = s.postForm(ctx, "/bmr", "", url.Values{
		"weight_kg": {"70"}, "age": {"300"}, "sex": {"H"}, "height_cm": {"175"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
}
