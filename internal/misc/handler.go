package misc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitjournal/internal/telemetry/tracing"
	"github.com/2beens/fitjournal/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const pingTimeout = 2 * time.Second

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=misc_test

// pinger is satisfied by both the pgx pool and the health check adapter around redis.
type pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
	Version  string `json:"version,omitempty"`
}

type Handler struct {
	db          pinger
	redis       pinger
	versionInfo string
}

func NewHandler(db, redis pinger, versionInfo string) *Handler {
	return &Handler{
		db:          db,
		redis:       redis,
		versionInfo: versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/myip", handler.handleGetMyIp).Methods("GET").Name("myip")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

// handleHealth reports 503 as soon as one of the backing stores cannot be reached.
func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.health")
	defer span.End()

	resp := HealthResponse{
		Status:   "ok",
		Postgres: handler.check(ctx, "postgres", handler.db),
		Redis:    handler.check(ctx, "redis", handler.redis),
		Version:  handler.versionInfo,
	}

	status := http.StatusOK
	if resp.Postgres != "ok" || resp.Redis != "ok" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
		span.SetStatus(codes.Error, "degraded")
	}

	pkg.WriteJSON(w, resp, status)
}

func (handler *Handler) check(ctx context.Context, name string, p pinger) string {
	if p == nil {
		return "disabled"
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		log.Errorf("health check, ping %s: %s", name, err)
		return "unreachable"
	}
	return "ok"
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.versionInfo")
	defer span.End()

	if handler.versionInfo == "" {
		pkg.WriteTextResponseOK(w, "unknown")
		return
	}
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleGetMyIp(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.getMyIp")
	defer span.End()

	ip, err := pkg.ReadUserIP(r)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("failed to get user IP address: %s", err))
		log.Errorf("failed to get user IP address: %s", err)
		http.Error(w, "failed to get IP", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("user.ip", ip))
	pkg.WriteTextResponseOK(w, ip)
}
