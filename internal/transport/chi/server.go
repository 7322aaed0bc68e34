// Package chi exposes the discovery API over HTTP.
package chi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shoplens/discovery/internal/domain"
	"github.com/shoplens/discovery/internal/domain/conversation"
	"github.com/shoplens/discovery/internal/domain/intent"
	"github.com/shoplens/discovery/internal/usecase/dispatch"
	healthuc "github.com/shoplens/discovery/internal/usecase/health"
)

const maxAskBodyBytes = 8 << 20 // generous for a base64 image

// Dispatcher routes a request to the intent handlers.
type Dispatcher interface {
	Handle(ctx context.Context, req dispatch.Request) dispatch.Envelope
}

// Health aggregates component health checks.
type Health interface {
	Check(ctx context.Context) healthuc.Report
}

// Catalog reloads the corpus snapshot.
type Catalog interface {
	Load(ctx context.Context) error
	Count() int
}

// VocabularyCache invalidates derived vocabulary after a reload.
type VocabularyCache interface {
	Invalidate()
}

// Server is the HTTP API server.
type Server struct {
	dispatcher Dispatcher
	health     Health
	catalog    Catalog
	vocab      VocabularyCache
	logger     *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	dispatcher Dispatcher,
	health Health,
	catalog Catalog,
	vocab VocabularyCache,
	logger *zap.Logger,
) *Server {
	return &Server{
		dispatcher: dispatcher,
		health:     health,
		catalog:    catalog,
		vocab:      vocab,
		logger:     logger,
	}
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/ask", s.Ask)
	r.Get("/healthz", s.HealthCheck)
	r.Post("/admin/reload", s.Reload)
	r.Get("/metrics", s.Metrics)
}

type turnRequest struct {
	UserInput     string `json:"user_input"`
	AgentResponse string `json:"agent_response"`
	Intent        string `json:"intent"`
}

type askRequest struct {
	Text        string        `json:"text"`
	ImageBase64 string        `json:"image_base64,omitempty"`
	Context     []turnRequest `json:"conversation_context,omitempty"`
}

type productResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Availability bool     `json:"availability"`
	Category     []string `json:"category,omitempty"`
	Brand        string   `json:"brand,omitempty"`
	ColorFamily  string   `json:"color_family,omitempty"`
	URL          string   `json:"url,omitempty"`
}

type askResponse struct {
	Response   string            `json:"response"`
	Products   []productResponse `json:"products"`
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Metadata   map[string]any    `json:"metadata,omitempty"`
}

// Ask handles POST /v1/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	body := http.MaxBytesReader(w, r.Body, maxAskBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	var image []byte
	if req.ImageBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "image_base64 is not valid base64")
			return
		}
		image = decoded
	}

	if req.Text == "" && len(image) == 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "text or image_base64 is required")
		return
	}

	env := s.dispatcher.Handle(r.Context(), dispatch.Request{
		Text:    req.Text,
		Image:   image,
		Context: contextFromRequest(req.Context),
	})

	writeJSON(w, http.StatusOK, envelopeToResponse(env))
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":        report.Status,
		"checks":        report.Checks,
		"product_count": report.ProductCount,
	})
}

// Reload handles POST /admin/reload. It re-reads the catalog source and
// swaps the snapshot; readers keep the old snapshot until the swap.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Load(r.Context()); err != nil {
		s.logger.Error("Catalog reload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "reload_failed", "catalog reload failed")
		return
	}
	s.vocab.Invalidate()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"product_count": s.catalog.Count(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func contextFromRequest(turns []turnRequest) conversation.Context {
	if len(turns) == 0 {
		return nil
	}
	out := make(conversation.Context, len(turns))
	for i, t := range turns {
		out[i] = conversation.Turn{
			UserInput:     t.UserInput,
			AgentResponse: t.AgentResponse,
			Intent:        intent.Intent(t.Intent),
		}
	}
	return out
}

func envelopeToResponse(env dispatch.Envelope) askResponse {
	products := make([]productResponse, len(env.Products))
	for i, p := range env.Products {
		products[i] = productToResponse(p)
	}
	return askResponse{
		Response:   env.Response,
		Products:   products,
		Intent:     string(env.Intent),
		Confidence: env.Confidence,
		Metadata:   env.Metadata,
	}
}

func productToResponse(p domain.Product) productResponse {
	return productResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Availability: p.Availability,
		Category:     p.Category,
		Brand:        p.Attributes.Brand,
		ColorFamily:  p.Attributes.ColorFamily,
		URL:          p.URL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
