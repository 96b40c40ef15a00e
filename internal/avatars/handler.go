package avatars

import (
	"errors"
	"net/http"

	"github.com/2beens/fitjournal/internal/telemetry/tracing"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{
		store: store,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/avatars/{name}", handler.HandleGet).Methods("GET")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.avatars.get")
	defer span.End()

	name := mux.Vars(r)["name"]
	file, info, err := handler.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, ErrAvatarNotFound) {
			http.Error(w, "avatar not found", http.StatusNotFound)
			return
		}
		log.Errorf("open avatar %s: %s", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}
