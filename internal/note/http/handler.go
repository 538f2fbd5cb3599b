package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/AlibekovAA/dh-notes/internal/common/constants"
	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
	commonhttp "github.com/AlibekovAA/dh-notes/internal/common/http"
	"github.com/AlibekovAA/dh-notes/internal/common/jwtverify"
	"github.com/AlibekovAA/dh-notes/internal/common/logger"
	"github.com/AlibekovAA/dh-notes/internal/note/domain"
	"github.com/AlibekovAA/dh-notes/internal/note/dto"
)

type NoteService interface {
	GetAll(ctx context.Context) ([]domain.Note, error)
	GetByID(ctx context.Context, id domain.ID) (domain.Note, error)
	Create(ctx context.Context, note *domain.Note) (domain.Note, error)
	Update(ctx context.Context, note *domain.Note) (domain.Note, error)
	DeleteByID(ctx context.Context, id domain.ID) error
	Search(ctx context.Context, keyword string, page, size int) (domain.Page, error)
}

type Handler struct {
	notes   NoteService
	gate    func(http.Handler) http.Handler
	stream  http.Handler
	log     *logger.Logger
	timeout time.Duration
}

// NewHandler builds the note API. Every route, including the change feed,
// sits behind the access gate that requires ROLE_USER. stream may be nil.
func NewHandler(notes NoteService, verifier jwtverify.Verifier, stream http.Handler, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		notes:   notes,
		gate:    jwtverify.Middleware(verifier, constants.RoleUser, log),
		stream:  stream,
		log:     log,
		timeout: timeout,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	withTimeout := commonhttp.WithTimeout(h.timeout)

	sub := r.PathPrefix("/api/notes").Subrouter()
	sub.Use(mux.MiddlewareFunc(h.gate))

	sub.HandleFunc("", withTimeout(h.list)).Methods(http.MethodGet)
	sub.HandleFunc("", withTimeout(h.create)).Methods(http.MethodPost)
	sub.HandleFunc("/search", withTimeout(h.search)).Methods(http.MethodGet)
	if h.stream != nil {
		sub.Handle("/stream", h.stream).Methods(http.MethodGet)
	}
	sub.HandleFunc("/{id}", withTimeout(h.get)).Methods(http.MethodGet)
	sub.HandleFunc("/{id}", withTimeout(h.update)).Methods(http.MethodPut)
	sub.HandleFunc("/{id}", withTimeout(h.delete)).Methods(http.MethodDelete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.GetAll(r.Context())
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, dto.FromNotes(notes))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	note, err := h.notes.GetByID(r.Context(), id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, dto.FromNote(note))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req *dto.NoteRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	var input *domain.Note
	if req != nil {
		n := req.ToDomain()
		input = &n
	}

	created, err := h.notes.Create(r.Context(), input)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusCreated, dto.FromNote(created))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	var req *dto.NoteRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	var input *domain.Note
	if req != nil {
		n := req.ToDomain().WithID(id)
		input = &n
	}

	updated, err := h.notes.Update(r.Context(), input)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, dto.FromNote(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	if err := h.notes.DeleteByID(r.Context(), id); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// search answers 404 when the requested page has no notes, including for a
// blank query.
func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	page, err := commonhttp.QueryInt(r, "page", constants.DefaultSearchPage)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	size, err := commonhttp.QueryInt(r, "size", constants.DefaultSearchPageSize)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	result, err := h.notes.Search(r.Context(), r.URL.Query().Get("query"), page, size)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	if result.IsEmpty() {
		commonhttp.HandleError(w, r, commonerrors.ErrNoNotesFound, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, dto.FromPage(result))
}

func pathID(r *http.Request) (domain.ID, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, commonerrors.ErrInvalidNoteID.WithMessage("note id must be an integer")
	}
	return domain.ID(id), nil
}
