package journal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/fitjournal/internal/auth"
	"github.com/2beens/fitjournal/internal/telemetry/metrics"
	"github.com/2beens/fitjournal/internal/telemetry/tracing"
	"github.com/2beens/fitjournal/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=journal_test

type journalRepo interface {
	AddTopic(ctx context.Context, topic Topic) (*Topic, error)
	GetTopic(ctx context.Context, id int) (*Topic, error)
	TopicsByOwner(ctx context.Context, ownerID int) ([]Topic, error)
	AddEntry(ctx context.Context, entry Entry) (*Entry, error)
	GetEntry(ctx context.Context, id int) (*Entry, error)
	EntriesByTopic(ctx context.Context, topicID int) ([]Entry, error)
	UpdateEntry(ctx context.Context, id int, text string) error
}

var (
	topicForm = pkg.NewForm(pkg.FormField{Name: "text", Type: "text", Required: true, MaxLength: 200})
	// keep MaxLength in sync with the validate tags in topic.go
	entryForm = pkg.NewForm(pkg.FormField{Name: "text", Type: "textarea", Required: true, MaxLength: 10000})
)

type TopicsResponse struct {
	Topics []Topic `json:"topics"`
	Total  int     `json:"total"`
}

type TopicResponse struct {
	Topic   *Topic  `json:"topic"`
	Entries []Entry `json:"entries"`
}

type EntryFormResponse struct {
	Topic *Topic   `json:"topic"`
	Entry *Entry   `json:"entry,omitempty"`
	Form  pkg.Form `json:"form"`
}

type Handler struct {
	repo    journalRepo
	guard   *Guard
	metrics *metrics.Manager
}

func NewHandler(repo journalRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		guard:   NewGuard(repo),
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/topics", handler.HandleTopics).Methods("GET")
	router.HandleFunc("/topics/new", handler.HandleNewTopic).Methods("GET", "POST", "OPTIONS")
	router.HandleFunc("/topics/{id:[0-9]+}", handler.HandleTopic).Methods("GET")
	router.HandleFunc("/topics/{id:[0-9]+}/entries/new", handler.HandleNewEntry).Methods("GET", "POST", "OPTIONS")
	router.HandleFunc("/entries/{id:[0-9]+}/edit", handler.HandleEditEntry).Methods("GET", "POST", "OPTIONS")
}

func (handler *Handler) HandleTopics(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.topics")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	topics, err := handler.repo.TopicsByOwner(ctx, userID)
	if err != nil {
		log.Errorf("list topics of user %d: %s", userID, err)
		http.Error(w, "failed to get topics", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, TopicsResponse{Topics: topics, Total: len(topics)}, http.StatusOK)
}

func (handler *Handler) HandleTopic(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.topic")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	topicID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	topic, err := handler.guard.RequireTopicOwner(ctx, topicID, userID)
	if err != nil {
		writeGuardError(w, err)
		return
	}

	entries, err := handler.repo.EntriesByTopic(ctx, topic.ID)
	if err != nil {
		log.Errorf("list entries of topic %d: %s", topic.ID, err)
		http.Error(w, "failed to get entries", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, TopicResponse{Topic: topic, Entries: entries}, http.StatusOK)
}

func (handler *Handler) HandleNewTopic(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.newTopic")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if r.Method == http.MethodGet {
		pkg.WriteJSON(w, topicForm, http.StatusOK)
		return
	}

	var req topicRequest
	if err := decodeTextRequest(r, &req.Text); err != nil {
		http.Error(w, "add topic failed", http.StatusBadRequest)
		return
	}
	if err := pkg.Validate(req); err != nil {
		pkg.WriteValidationFailure(w, err)
		return
	}

	// owner always comes from the session, never from the request
	topic, err := handler.repo.AddTopic(ctx, Topic{
		Text:    req.Text,
		OwnerID: userID,
	})
	if err != nil {
		log.Errorf("failed to add new topic for user %d: %s", userID, err)
		http.Error(w, "error, failed to add new topic", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterTopics.Inc()
	log.Debugf("new topic added: %d", topic.ID)
	pkg.WriteJSON(w, topic, http.StatusCreated)
}

func (handler *Handler) HandleNewEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.newEntry")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	topicID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	topic, err := handler.guard.RequireTopicOwner(ctx, topicID, userID)
	if err != nil {
		writeGuardError(w, err)
		return
	}

	if r.Method == http.MethodGet {
		pkg.WriteJSON(w, EntryFormResponse{Topic: topic, Form: entryForm}, http.StatusOK)
		return
	}

	var req entryRequest
	if err := decodeTextRequest(r, &req.Text); err != nil {
		http.Error(w, "add entry failed", http.StatusBadRequest)
		return
	}
	if err := pkg.Validate(req); err != nil {
		pkg.WriteValidationFailure(w, err)
		return
	}

	entry, err := handler.repo.AddEntry(ctx, Entry{
		TopicID: topic.ID,
		Text:    req.Text,
	})
	if err != nil {
		log.Errorf("failed to add new entry to topic %d: %s", topic.ID, err)
		http.Error(w, "error, failed to add new entry", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterEntries.Inc()
	pkg.WriteJSON(w, entry, http.StatusCreated)
}

func (handler *Handler) HandleEditEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.journal.editEntry")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	entryID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	entry, topic, err := handler.guard.RequireEntryOwner(ctx, entryID, userID)
	if err != nil {
		writeGuardError(w, err)
		return
	}

	if r.Method == http.MethodGet {
		pkg.WriteJSON(w, EntryFormResponse{
			Topic: topic,
			Entry: entry,
			Form:  entryForm.WithValues(map[string]any{"text": entry.Text}),
		}, http.StatusOK)
		return
	}

	var req entryRequest
	if err := decodeTextRequest(r, &req.Text); err != nil {
		http.Error(w, "edit entry failed", http.StatusBadRequest)
		return
	}
	if err := pkg.Validate(req); err != nil {
		pkg.WriteValidationFailure(w, err)
		return
	}

	if err := handler.repo.UpdateEntry(ctx, entry.ID, req.Text); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update entry %d: %s", entry.ID, err)
		http.Error(w, "error, failed to update entry", http.StatusInternalServerError)
		return
	}

	entry.Text = req.Text
	pkg.WriteJSON(w, entry, http.StatusOK)
}

// decodeTextRequest reads the single "text" field from a JSON or form body.
func decodeTextRequest(r *http.Request, text *string) error {
	if pkg.IsJSONRequest(r) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return err
		}
		*text = strings.TrimSpace(req.Text)
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return err
	}
	*text = strings.TrimSpace(r.PostForm.Get("text"))
	return nil
}

func writeGuardError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	log.Errorf("ownership check: %s", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
