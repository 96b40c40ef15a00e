package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/2beens/fitjournal/internal/auth"
	"github.com/2beens/fitjournal/internal/avatars"
	"github.com/2beens/fitjournal/internal/middleware"
	"github.com/2beens/fitjournal/internal/telemetry/metrics"
	"github.com/2beens/fitjournal/internal/telemetry/tracing"
	"github.com/2beens/fitjournal/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

var (
	registerForm = pkg.NewForm(
		pkg.FormField{Name: "username", Type: "text", Required: true, MinLength: 3, MaxLength: 150},
		pkg.FormField{Name: "email", Type: "email", Required: true, MaxLength: 254},
		pkg.FormField{Name: "password1", Type: "password", Required: true, MinLength: 8, MaxLength: 72},
		pkg.FormField{Name: "password2", Type: "password", Required: true, MinLength: 8, MaxLength: 72},
		pkg.FormField{Name: "avatar", Type: "file"},
	)
	profileForm = pkg.NewForm(
		pkg.FormField{Name: "first_name", Type: "text", MaxLength: 150},
		pkg.FormField{Name: "last_name", Type: "text", MaxLength: 150},
		pkg.FormField{Name: "email", Type: "email", MaxLength: 254},
		pkg.FormField{Name: "avatar", Type: "file"},
	)
)

type TokenResponse struct {
	Token string `json:"token"`
}

type RegisterResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

type ProfileFormResponse struct {
	User *UserProfile `json:"user"`
	Form pkg.Form     `json:"form"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	allowedPerMin int,
) {
	// rate limit login and registration to slow down credential guessing
	limitLogin := middleware.RateLimit(rateLimiter, "login", allowedPerMin, metricsManager)
	limitRegister := middleware.RateLimit(rateLimiter, "register", allowedPerMin, metricsManager)

	router.Handle("/register", limitRegister(http.HandlerFunc(handler.HandleRegister))).
		Methods("GET", "POST", "OPTIONS").Name("register")
	router.Handle("/login", limitLogin(http.HandlerFunc(handler.HandleLogin))).
		Methods("POST", "OPTIONS").Name("login")
	router.HandleFunc("/logout", handler.HandleLogout).Methods("GET", "POST", "OPTIONS").Name("logout")
	router.HandleFunc("/profile", handler.HandleProfile).Methods("GET").Name("profile")
	router.HandleFunc("/profile/edit", handler.HandleEditProfile).Methods("GET", "POST", "OPTIONS").Name("profile-edit")
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.register")
	defer span.End()

	switch r.Method {
	case http.MethodOptions:
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodGet:
		pkg.WriteJSON(w, registerForm, http.StatusOK)
		return
	}

	var req RegisterRequest
	var avatar *Upload
	if pkg.IsJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Tracef("register, unmarshal json params: %s", err)
			http.Error(w, "register failed", http.StatusBadRequest)
			return
		}
	} else {
		values, upload, cleanup, err := readForm(r)
		defer cleanup()
		if err != nil {
			log.Tracef("register, parse form: %s", err)
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		avatar = upload
		req = RegisterRequest{
			Username:  values.Get("username"),
			Email:     values.Get("email"),
			Password1: values.Get("password1"),
			Password2: values.Get("password2"),
		}
	}

	token, up, err := handler.service.Register(ctx, req, avatar)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			pkg.WriteValidationError(w, pkg.NewValidationError("username", ErrUsernameTaken.Error()))
			return
		}
		if errors.Is(err, avatars.ErrUnsupportedImage) || errors.Is(err, avatars.ErrAvatarTooLarge) {
			pkg.WriteValidationError(w, pkg.NewValidationError("avatar", err.Error()))
			return
		}
		pkg.WriteValidationFailure(w, err)
		return
	}

	log.Debugf("new user registered: %d", up.User.ID)
	pkg.WriteJSON(w, RegisterResponse{Token: token, User: up}, http.StatusCreated)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var loginReq LoginRequest
	if pkg.IsJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		loginReq = LoginRequest{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
		}
	}

	if loginReq.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if loginReq.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, err := handler.service.Login(ctx, loginReq)
	if err != nil {
		if errors.Is(err, ErrWrongCredentials) {
			http.Error(w, "wrong credentials", http.StatusBadRequest)
			return
		}
		log.Errorf("login failed: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	log.Trace("new login success")
	pkg.WriteJSON(w, TokenResponse{Token: token}, http.StatusOK)
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	token, ok := auth.TokenFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.service.Logout(ctx, token)
	if err != nil {
		log.Errorf("logout failed: %s", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	log.Trace("logout success")
	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.profile")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	up, err := handler.service.Me(ctx, userID)
	if err != nil {
		writeUserError(w, userID, err)
		return
	}

	pkg.WriteJSON(w, up, http.StatusOK)
}

func (handler *Handler) HandleEditProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.editProfile")
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
		up, err := handler.service.Me(ctx, userID)
		if err != nil {
			writeUserError(w, userID, err)
			return
		}
		pkg.WriteJSON(w, ProfileFormResponse{
			User: up,
			Form: profileForm.WithValues(map[string]any{
				"first_name": up.User.FirstName,
				"last_name":  up.User.LastName,
				"email":      up.User.Email,
			}),
		}, http.StatusOK)
		return
	}

	var req EditProfileRequest
	var avatar *Upload
	if pkg.IsJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Tracef("edit profile, unmarshal json params: %s", err)
			http.Error(w, "edit profile failed", http.StatusBadRequest)
			return
		}
	} else {
		values, upload, cleanup, err := readForm(r)
		defer cleanup()
		if err != nil {
			log.Tracef("edit profile, parse form: %s", err)
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		avatar = upload
		req = EditProfileRequest{
			FirstName: values.Get("first_name"),
			LastName:  values.Get("last_name"),
			Email:     values.Get("email"),
		}
	}

	up, err := handler.service.EditProfile(ctx, userID, req, avatar)
	if err != nil {
		var vErr *pkg.ValidationError
		switch {
		case errors.As(err, &vErr):
			pkg.WriteValidationError(w, vErr)
		case errors.Is(err, avatars.ErrUnsupportedImage), errors.Is(err, avatars.ErrAvatarTooLarge):
			pkg.WriteValidationError(w, pkg.NewValidationError("avatar", err.Error()))
		default:
			writeUserError(w, userID, err)
		}
		return
	}

	pkg.WriteJSON(w, up, http.StatusOK)
}

// readForm parses url-encoded or multipart form data. The returned cleanup releases
// the uploaded avatar and any temp files.
func readForm(r *http.Request) (url.Values, *Upload, func(), error) {
	noop := func() {}
	if !pkg.IsMultipartRequest(r) {
		if err := r.ParseForm(); err != nil {
			return nil, nil, noop, err
		}
		return r.Form, nil, noop, nil
	}

	if err := r.ParseMultipartForm(avatars.MaxAvatarSize); err != nil {
		return nil, nil, noop, err
	}
	cleanup := func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Errorf("remove multipart temp files: %s", err)
		}
	}

	file, header, err := r.FormFile("avatar")
	if errors.Is(err, http.ErrMissingFile) {
		return r.Form, nil, cleanup, nil
	}
	if err != nil {
		return nil, nil, cleanup, err
	}

	return r.Form, &Upload{Filename: header.Filename, File: file}, func() {
		file.Close()
		cleanup()
	}, nil
}

func writeUserError(w http.ResponseWriter, userID int, err error) {
	if errors.Is(err, ErrUserNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	log.Errorf("user %d: %s", userID, err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
