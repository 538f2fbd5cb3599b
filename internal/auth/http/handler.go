package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/AlibekovAA/dh-notes/internal/common/constants"
	commonhttp "github.com/AlibekovAA/dh-notes/internal/common/http"
	"github.com/AlibekovAA/dh-notes/internal/common/logger"
	userdomain "github.com/AlibekovAA/dh-notes/internal/user/domain"
)

type Authenticator interface {
	Register(ctx context.Context, username, password string) (userdomain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type Handler struct {
	auth    Authenticator
	log     *logger.Logger
	timeout time.Duration
}

func NewHandler(auth Authenticator, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{auth: auth, log: log, timeout: timeout}
}

// RegisterRoutes mounts the public auth endpoints on r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	withTimeout := commonhttp.WithTimeout(h.timeout)
	sub := r.PathPrefix("/api/auth").Subrouter()
	sub.HandleFunc("/register", withTimeout(h.register)).Methods(http.MethodPost)
	sub.HandleFunc("/login", withTimeout(h.login)).Methods(http.MethodPost)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{"action": "register_invalid_json"}).Warnf("register failed: %v", err)
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, userResponse{
		ID:        string(user.ID),
		Username:  user.Username,
		CreatedAt: user.CreatedAt.Format(constants.TimestampLayout),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{"action": "login_invalid_json"}).Warnf("login failed: %v", err)
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{Token: token})
}
