package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Deepayan-S/FoodScanner/app"
)

// Scanner is the static orchestrator as seen by the HTTP layer.
type Scanner interface {
	ScanAndLookup(ctx context.Context, loader app.ImageLoader) app.Report
}

// API serves scans and product lookups over HTTP.
type API struct {
	scanner   Scanner
	products  app.ProductLookup
	maxUpload int64
	logger    *slog.Logger
}

func NewAPI(scanner Scanner, products app.ProductLookup, maxUploadMB int, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &API{scanner: scanner, products: products, maxUpload: int64(maxUploadMB) << 20, logger: logger}
}

// NewRouter wires the routes.
func (a *API) NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.requestID)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := fmt.Fprintln(w, "OK"); err != nil {
			a.logger.Debug("http.health_write", "error", err)
		}
	}).Methods("GET")
	r.HandleFunc("/api/scan", a.ScanHandler).Methods("POST")
	r.HandleFunc("/api/products/{barcode}", a.ProductHandler).Methods("GET")
	return r
}

const headerRequestID = "X-Request-ID"

// requestID tags each request with an id and logs it on completion.
func (a *API) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		a.logger.Info("http.request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
