package delivery

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/georgemunganga/storefront/internal/apperror"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Handler exposes delivery pricing and availability HTTP endpoints.
type Handler struct {
	service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/delivery", func(r chi.Router) {
		// Pricing
		r.Post("/price", h.quote)
		r.Get("/stores/{store_id}/price", h.quoteByQuery) // ?lat=&lng=&subtotal=

		// Availability
		r.Get("/stores/{store_id}/availability", h.availability) // ?at=&windows=
		r.Post("/stores/{store_id}/slots/validate", h.validateSlot)
	})
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	var req PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}
	quote, err := h.service.Quote(r.Context(), req)
	if err != nil {
		h.fail(w, r, req.StoreID, err)
		return
	}
	respond(w, http.StatusOK, quote)
}

func (h *Handler) quoteByQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := PriceRequest{StoreID: chi.URLParam(r, "store_id")}

	for _, p := range []struct {
		name string
		dst  **float64
	}{{"lat", &req.DestinationLatitude}, {"lng", &req.DestinationLongitude}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": p.name + " must be a number"})
			return
		}
		*p.dst = &v
	}
	if raw := q.Get("subtotal"); raw != "" {
		subtotal, err := decimal.NewFromString(raw)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "subtotal must be a number"})
			return
		}
		req.Subtotal = subtotal
	}

	quote, err := h.service.Quote(r.Context(), req)
	if err != nil {
		h.fail(w, r, req.StoreID, err)
		return
	}
	respond(w, http.StatusOK, quote)
}

func (h *Handler) availability(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "store_id")
	q := r.URL.Query()

	var at time.Time
	if raw := q.Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "at must be an RFC 3339 timestamp"})
			return
		}
		at = parsed
	}
	windows := 0
	if raw := q.Get("windows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respond(w, http.StatusBadRequest, map[string]string{"error": "windows must be a non-negative integer"})
			return
		}
		windows = n
	}

	res, err := h.service.Availability(r.Context(), storeID, at, windows)
	if err != nil {
		h.fail(w, r, storeID, err)
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *Handler) validateSlot(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "store_id")
	var body SlotRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}
	res, err := h.service.ValidateSlot(r.Context(), storeID, body.Slot)
	if err != nil {
		h.fail(w, r, storeID, err)
		return
	}
	respond(w, http.StatusOK, res)
}

// StatusFor maps an error classification to an HTTP status.
func StatusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.InvalidInput:
		return http.StatusBadRequest
	case apperror.NotFound:
		return http.StatusNotFound
	case apperror.ConfigurationMissing:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, storeID string, err error) {
	status := StatusFor(err)
	kind := apperror.KindOf(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("delivery request failed",
			zap.String("store_id", storeID),
			zap.String("kind", string(kind)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}

	body := map[string]string{"error": apperror.Message(err)}
	if kind == "" {
		body["error"] = "internal server error"
	} else {
		body["kind"] = string(kind)
	}
	respond(w, status, body)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
