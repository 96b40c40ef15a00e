package workouts

type Progress struct {
	TotalCount      int     `json:"total_count"`
	CompletedCount  int     `json:"completed_count"`
	ProgressPercent float64 `json:"progress_percent"`
	TimePerExercise float64 `json:"time_per_exercise"`
	TimeRemaining   float64 `json:"time_remaining"`
}

// ComputeProgress derives completion and the remaining time estimate of a plan
// from its exercises. Empty plans report 0% and the full estimate remaining.
// TimeRemaining never goes below zero.
func ComputeProgress(exercises []Exercise, totalEstimatedMinutes float64) Progress {
	p := Progress{
		TotalCount:    len(exercises),
		TimeRemaining: totalEstimatedMinutes,
	}
	for _, ex := range exercises {
		if ex.Completed {
			p.CompletedCount++
		}
	}

	if p.TotalCount == 0 {
		return p
	}

	total := float64(p.TotalCount)
	completed := float64(p.CompletedCount)
	p.ProgressPercent = completed / total * 100
	p.TimePerExercise = totalEstimatedMinutes / total
	p.TimeRemaining = max(totalEstimatedMinutes-completed*p.TimePerExercise, 0)

	return p
}
