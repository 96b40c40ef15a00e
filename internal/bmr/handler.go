package bmr

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/2beens/fitjournal/internal/telemetry/metrics"
	"github.com/2beens/fitjournal/internal/telemetry/tracing"
	"github.com/2beens/fitjournal/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var inputForm = pkg.NewForm(
	pkg.FormField{Name: "weight_kg", Type: "number", Required: true, Min: pkg.Bound(5), Max: pkg.Bound(999)},
	pkg.FormField{Name: "age", Type: "number", Required: true, Min: pkg.Bound(1), Max: pkg.Bound(105)},
	pkg.FormField{Name: "sex", Type: "choice", Required: true, Choices: []string{SexMale, SexHomem, SexFemale}},
	pkg.FormField{Name: "height_cm", Type: "number", Required: true, Min: pkg.Bound(30), Max: pkg.Bound(300)},
)

type Handler struct {
	metrics *metrics.Manager
}

func NewHandler(metricsManager *metrics.Manager) *Handler {
	return &Handler{
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/bmr", handler.HandleCalculate).Methods("GET", "POST", "OPTIONS")
}

func (handler *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.bmr.calculate")
	defer span.End()

	switch r.Method {
	case http.MethodOptions:
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodGet:
		pkg.WriteJSON(w, inputForm, http.StatusOK)
		return
	}

	in, err := decodeInput(r)
	if err != nil {
		pkg.WriteValidationFailure(w, err)
		return
	}

	bmr, err := Calculate(in)
	if err != nil {
		pkg.WriteValidationFailure(w, err)
		return
	}

	span.SetAttributes(attribute.String("sex", in.Sex))
	handler.metrics.CounterBMRCalculations.Inc()
	log.Tracef("bmr calculated: %.2f", bmr)

	pkg.WriteJSON(w, Result{Input: in, BMR: bmr}, http.StatusOK)
}

func decodeInput(r *http.Request) (Input, error) {
	var in Input
	if pkg.IsJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			log.Tracef("bmr, unmarshal json params: %s", err)
			return in, pkg.NewValidationError("__all__", "malformed request body")
		}
		in.Sex = strings.ToUpper(strings.TrimSpace(in.Sex))
		return in, nil
	}

	if err := r.ParseForm(); err != nil {
		return in, pkg.NewValidationError("__all__", "malformed form")
	}

	vErr := &pkg.ValidationError{}
	in = Input{
		WeightKg: pkg.FormFloat(r.Form, "weight_kg", vErr),
		Age:      pkg.FormInt(r.Form, "age", vErr),
		Sex:      strings.ToUpper(strings.TrimSpace(r.Form.Get("sex"))),
		HeightCm: pkg.FormFloat(r.Form, "height_cm", vErr),
	}
	if len(vErr.Fields) > 0 {
		return in, vErr
	}
	return in, nil
}
