package workouts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/fitjournal/internal/auth"
	"github.com/2beens/fitjournal/internal/telemetry/tracing"
	"github.com/2beens/fitjournal/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ListResponse struct {
	Plans []Plan `json:"plans"`
	Total int    `json:"total"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/plans", handler.HandleList).Methods("GET")
	router.HandleFunc("/plans", handler.HandleCreate).Methods("POST", "OPTIONS")
	router.HandleFunc("/plans/detail", handler.HandleDetail).Methods("GET", "POST", "OPTIONS")
	router.HandleFunc("/plans/{id}/exercises", handler.HandleAddExercise).Methods("POST", "OPTIONS")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.list")
	defer span.End()

	plans, err := handler.service.ListPlans(ctx)
	if err != nil {
		log.Errorf("list plans: %s", err)
		http.Error(w, "failed to get plans", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, ListResponse{Plans: plans, Total: len(plans)}, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.create")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req NewPlanRequest
	if pkg.IsJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Tracef("new plan, unmarshal json params: %s", err)
			http.Error(w, "add plan failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("add new plan failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		req = NewPlanRequest{
			Name:        r.Form.Get("name"),
			Description: r.Form.Get("description"),
		}
	}

	if err := pkg.Validate(req); err != nil {
		pkg.WriteValidationFailure(w, err)
		return
	}

	plan, err := handler.service.CreatePlan(ctx, userID, req)
	if err != nil {
		log.Errorf("failed to add new plan [%s]: %s", req.Name, err)
		http.Error(w, "error, failed to add new plan", http.StatusInternalServerError)
		return
	}

	log.Debugf("new plan added: [%s]: %d", plan.Name, plan.ID)
	pkg.WriteJSON(w, plan, http.StatusCreated)
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.addExercise")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	planID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	req, err := decodeNewExerciseRequest(r)
	if err != nil {
		pkg.WriteValidationFailure(w, err)
		return
	}

	exercise, err := handler.service.AddExercise(ctx, userID, planID, req)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to add exercise to plan %d: %s", planID, err)
		http.Error(w, "error, failed to add exercise", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, exercise, http.StatusCreated)
}

// HandleDetail shows a plan with its progress. A POST carrying exercise_id toggles that
// exercise first, so the response already reflects the new state.
func (handler *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.detail")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var planID *int
	if planIDStr := r.URL.Query().Get("plan_id"); planIDStr != "" {
		id, err := strconv.Atoi(planIDStr)
		if err != nil {
			http.Error(w, "error, plan id NaN", http.StatusBadRequest)
			return
		}
		planID = &id
	}

	if r.Method == http.MethodPost {
		if planID == nil {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}

		exerciseID, err := readExerciseID(r)
		if err != nil {
			http.Error(w, "error, exercise id invalid", http.StatusBadRequest)
			return
		}

		if _, err := handler.service.ToggleExercise(ctx, *planID, exerciseID); err != nil {
			if errors.Is(err, ErrExerciseNotFound) {
				http.Error(w, "exercise not found", http.StatusNotFound)
				return
			}
			log.Errorf("toggle exercise %d of plan %d: %s", exerciseID, *planID, err)
			http.Error(w, "error, failed to toggle exercise", http.StatusInternalServerError)
			return
		}
	}

	detail, err := handler.service.PlanDetail(ctx, planID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		log.Errorf("plan detail: %s", err)
		http.Error(w, "failed to get plan detail", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, detail, http.StatusOK)
}

func readExerciseID(r *http.Request) (int, error) {
	if pkg.IsJSONRequest(r) {
		var req struct {
			ExerciseID int `json:"exercise_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return 0, err
		}
		return req.ExerciseID, nil
	}

	if err := r.ParseForm(); err != nil {
		return 0, err
	}
	return strconv.Atoi(r.PostForm.Get("exercise_id"))
}

func decodeNewExerciseRequest(r *http.Request) (NewExerciseRequest, error) {
	var req NewExerciseRequest
	if pkg.IsJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Tracef("new exercise, unmarshal json params: %s", err)
			return req, pkg.NewValidationError("__all__", "malformed request body")
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, pkg.NewValidationError("__all__", "malformed form")
		}

		vErr := &pkg.ValidationError{}
		req = NewExerciseRequest{
			Name:         r.Form.Get("name"),
			Sets:         pkg.FormInt(r.Form, "sets", vErr),
			Reps:         pkg.FormInt(r.Form, "reps", vErr),
			RestInterval: r.Form.Get("rest_interval"),
		}
		if r.Form.Get("estimated_minutes") != "" {
			minutes := pkg.FormInt(r.Form, "estimated_minutes", vErr)
			req.EstimatedMinutes = &minutes
		}
		if len(vErr.Fields) > 0 {
			return req, vErr
		}
	}

	if err := pkg.Validate(req); err != nil {
		return req, err
	}
	return req, nil
}
