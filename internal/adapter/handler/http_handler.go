package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rl1809/pantry-tracker/internal/core/domain"
	"github.com/rl1809/pantry-tracker/internal/core/service"
)

const requestIDHeader = "X-Request-ID"

var ErrBadInput = errors.New("invalid input")

type requestIDKey struct{}

type HTTPHandler struct {
	store  *service.InventoryStore
	view   *service.ViewController
	logger *log.Logger
	router *mux.Router
}

type SearchHTTPRequest struct {
	Search string `json:"search"`
}

type NameHTTPRequest struct {
	Name *string `json:"name"`
}

type ItemsHTTPResponse struct {
	Items domain.List `json:"items"`
}

func NewHTTPHandler(store *service.InventoryStore, view *service.ViewController, logger *log.Logger) *HTTPHandler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	h := &HTTPHandler{
		store:  store,
		view:   view,
		logger: logger,
		router: mux.NewRouter().UseEncodedPath(),
	}
	h.routes()
	return h
}

// Router returns the request router.
func (h *HTTPHandler) Router() *mux.Router {
	return h.router
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *HTTPHandler) routes() {
	h.router.Use(
		h.requestIDMiddleware,
		h.logRequestMiddleware,
		closerMiddleware,
		headersMiddleware,
	)

	h.router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := h.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/view", h.GetView).Methods(http.MethodGet)
	api.HandleFunc("/view/search", h.SetSearch).Methods(http.MethodPut)
	api.HandleFunc("/view/modal/open", h.OpenModal).Methods(http.MethodPost)
	api.HandleFunc("/view/modal/close", h.CloseModal).Methods(http.MethodPost)
	api.HandleFunc("/view/pending", h.SetPending).Methods(http.MethodPut)
	api.HandleFunc("/view/submit", h.Submit).Methods(http.MethodPost)

	api.HandleFunc("/items", h.ListItems).Methods(http.MethodGet)
	api.HandleFunc("/items/reload", h.Reload).Methods(http.MethodPost)
	api.HandleFunc("/items/{name}/increment", h.Increment).Methods(http.MethodPost)
	api.HandleFunc("/items/{name}/decrement", h.Decrement).Methods(http.MethodPost)
}

// requestIDMiddleware propagates X-Request-ID, generating one when absent.
func (h *HTTPHandler) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *HTTPHandler) logRequestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		h.logger.Printf("request_id=%s method=%s path=%s vars=%v remote=%s",
			RequestID(r.Context()), r.Method, r.URL.Path, mux.Vars(r), r.RemoteAddr)
	})
}

// closerMiddleware drains and closes the body so the connection can be reused.
func closerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	})
}

func headersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// RequestID returns the request id stored by the HTTP middleware, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type HealthHTTPResponse struct {
	Status          string `json:"status"`
	InventoryLoaded bool   `json:"inventory_loaded"`
}

// HealthCheck reports liveness and whether the inventory has loaded at least once.
func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthHTTPResponse{
		Status:          "ok",
		InventoryLoaded: h.store.Loaded(),
	})
}

func (h *HTTPHandler) GetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view.State())
}

func (h *HTTPHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, ErrBadInput, http.StatusBadRequest)
		return
	}
	h.view.SetSearch(req.Search)
	writeJSON(w, http.StatusOK, h.view.State())
}

func (h *HTTPHandler) OpenModal(w http.ResponseWriter, r *http.Request) {
	h.view.OpenModal()
	writeJSON(w, http.StatusOK, h.view.State())
}

func (h *HTTPHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	h.view.CloseModal()
	writeJSON(w, http.StatusOK, h.view.State())
}

func (h *HTTPHandler) SetPending(w http.ResponseWriter, r *http.Request) {
	var req NameHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == nil {
		writeJSONError(w, ErrBadInput, http.StatusBadRequest)
		return
	}
	h.view.SetPendingName(*req.Name)
	writeJSON(w, http.StatusOK, h.view.State())
}

// Submit adds the given name, or the pending name when the body omits it.
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req NameHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, ErrBadInput, http.StatusBadRequest)
		return
	}

	// Store operations run to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	if req.Name != nil {
		h.view.SubmitNewItem(ctx, *req.Name)
	} else {
		h.view.SubmitPending(ctx)
	}
	writeJSON(w, http.StatusOK, h.view.State())
}

func (h *HTTPHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ItemsHTTPResponse{Items: h.store.Items()})
}

func (h *HTTPHandler) Reload(w http.ResponseWriter, r *http.Request) {
	items := h.store.Load(context.WithoutCancel(r.Context()))
	writeJSON(w, http.StatusOK, ItemsHTTPResponse{Items: items})
}

func (h *HTTPHandler) Increment(w http.ResponseWriter, r *http.Request) {
	name, err := itemName(r)
	if err != nil {
		writeJSONError(w, ErrBadInput, http.StatusBadRequest)
		return
	}
	h.view.Increment(context.WithoutCancel(r.Context()), name)
	writeJSON(w, http.StatusOK, h.view.State())
}

func (h *HTTPHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	name, err := itemName(r)
	if err != nil {
		writeJSONError(w, ErrBadInput, http.StatusBadRequest)
		return
	}
	h.view.Decrement(context.WithoutCancel(r.Context()), name)
	writeJSON(w, http.StatusOK, h.view.State())
}

// itemName decodes the {name} path segment; names may contain escaped slashes.
func itemName(r *http.Request) (string, error) {
	return url.PathUnescape(mux.Vars(r)["name"])
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeJSONError(w http.ResponseWriter, err error, status int) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
