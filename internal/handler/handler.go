// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer. Every response is a
// JSON object carrying a top-level "success" flag.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Shivanand-hulikatti/pandal-explorer/internal/model"
	"github.com/Shivanand-hulikatti/pandal-explorer/internal/repository"
	"github.com/Shivanand-hulikatti/pandal-explorer/internal/service"
)

// Client-facing error messages.
const (
	msgServerError      = "Server Error"
	msgNotFound         = "Pandal not found"
	msgInvalidBody      = "Invalid request body"
	msgBodyTooLarge     = "Request body too large"
	msgStoreUnavailable = "Store unavailable"
	msgRouteNotFound    = "Route not found"
	msgMethodNotAllowed = "Method not allowed"
)

// PandalHandler serves the catalog endpoints.
type PandalHandler struct {
	svc          *service.CatalogService
	maxBodyBytes int64
}

// NewPandalHandler constructs a PandalHandler. maxBodyBytes caps request
// bodies; image data URIs make create payloads large.
func NewPandalHandler(svc *service.CatalogService, maxBodyBytes int64) *PandalHandler {
	return &PandalHandler{svc: svc, maxBodyBytes: maxBodyBytes}
}

// AuthHandler serves the placeholder auth endpoints.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.Response{Success: false, Error: msg})
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, model.Response{Success: true, Data: data})
}

// decodeJSON reads the request body into dst. An empty body leaves dst
// zero-valued so required-field checks report what is missing.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// writeDecodeError answers a body that could not be decoded.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		return
	}
	writeError(w, http.StatusBadRequest, msgInvalidBody)
}

// writeServiceError maps service and repository errors to status codes.
// Unexpected errors are logged and answered with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	default:
		logger.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, msgServerError)
	}
}

// entryID parses the {id} path parameter. Anything that is not an integer
// cannot name an entry.
func entryID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func handlerLogger(name string) zerolog.Logger {
	return log.With().Str("component", "handler").Str("handler", name).Logger()
}

// ─── Catalog handlers ─────────────────────────────────────────────────────────

// ListPandals handles GET /api/pandals
// Optional query parameters: category (exact, "All" disables) and search
// (case-insensitive substring of title, location or pandal).
func (h *PandalHandler) ListPandals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.svc.ListEntries(r.Context(), model.ListFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	})
	if err != nil {
		writeServiceError(w, r, handlerLogger("ListPandals"), err)
		return
	}

	count := len(entries)
	writeJSON(w, http.StatusOK, model.Response{Success: true, Count: &count, Data: entries})
}

// GetPandal handles GET /api/pandals/{id}
func (h *PandalHandler) GetPandal(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	entry, err := h.svc.GetEntry(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, handlerLogger("GetPandal"), err)
		return
	}
	writeData(w, http.StatusOK, entry)
}

// CreatePandal handles POST /api/pandals
// title, location and pandal are required; category and image default.
func (h *PandalHandler) CreatePandal(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEntryRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	entry, err := h.svc.CreateEntry(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, handlerLogger("CreatePandal"), err)
		return
	}

	logger := handlerLogger("CreatePandal")
	logger.Info().
		Int64("id", entry.ID).
		Str("category", entry.Category).
		Msg("pandal created")
	writeData(w, http.StatusCreated, entry)
}

// LikePandal handles PUT /api/pandals/{id}/like
// Each call adds exactly one like.
func (h *PandalHandler) LikePandal(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	entry, err := h.svc.LikeEntry(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, handlerLogger("LikePandal"), err)
		return
	}
	writeData(w, http.StatusOK, entry)
}

// Stats handles GET /api/pandals/stats
func (h *PandalHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, handlerLogger("Stats"), err)
		return
	}
	writeData(w, http.StatusOK, st)
}

// Categories handles GET /api/categories
func Categories(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, model.Categories())
}

// ─── Auth stubs ───────────────────────────────────────────────────────────────

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, 1<<20, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, handlerLogger("Login"), err)
		return
	}
	writeJSON(w, http.StatusOK, model.Response{
		Success: true,
		Message: "Login endpoint - Coming soon!",
		Data:    res,
	})
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, 1<<20, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	res, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, handlerLogger("Register"), err)
		return
	}
	writeJSON(w, http.StatusCreated, model.Response{
		Success: true,
		Message: "Registration endpoint - Coming soon!",
		Data:    res,
	})
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.Response{Success: true, Status: "ok"})
}

// Readiness handles GET /readiness by pinging the catalog store.
func (h *PandalHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		logger := handlerLogger("Readiness")
		logger.Warn().Err(err).Msg("store not ready")
		writeError(w, http.StatusServiceUnavailable, msgStoreUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, model.Response{Success: true, Status: "ready"})
}

// NotFound answers unknown routes with the JSON envelope.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, msgRouteNotFound)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}
