package workouts

const DefaultExerciseMinutes = 30

type Plan struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	OwnerID     int     `json:"owner_id"`
	// sum of the plan's exercise estimates
	EstimatedMinutes int `json:"estimated_minutes"`
}

type Exercise struct {
	ID               int    `json:"id"`
	PlanID           int    `json:"plan_id"`
	Name             string `json:"name"`
	Sets             int    `json:"sets"`
	Reps             int    `json:"reps"`
	RestInterval     string `json:"rest_interval"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Completed        bool   `json:"completed"`
}

type NewPlanRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type NewExerciseRequest struct {
	Name             string `json:"name" validate:"required,max=200"`
	Sets             int    `json:"sets" validate:"gte=0"`
	Reps             int    `json:"reps" validate:"gte=0"`
	RestInterval     string `json:"rest_interval" validate:"required,max=50"`
	EstimatedMinutes *int   `json:"estimated_minutes" validate:"omitempty,gte=0"`
}

type PlanDetail struct {
	Plan      *Plan      `json:"plan"`
	Exercises []Exercise `json:"exercises"`
	Plans     []Plan     `json:"plans"`
	Progress  Progress   `json:"progress"`
}
