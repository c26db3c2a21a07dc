package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/domain/safety"
	"safetrack/internal/errs"
	"safetrack/internal/infrastructure/sheet"
	"safetrack/internal/usecase/dashboard"
	"safetrack/internal/usecase/importer"
	"safetrack/internal/usecase/records"
)

const maxUploadBytes = 32 << 20

var errBadRequest = errors.New("bad request")

// Handler serves the JSON API over the record, import and dashboard services.
type Handler struct {
	records    *records.Service
	importer   *importer.Reconciler
	dashboards *dashboard.Aggregator
}

func NewHandler(recordSvc *records.Service, rec *importer.Reconciler, agg *dashboard.Aggregator) *Handler {
	return &Handler{
		records:    recordSvc,
		importer:   rec,
		dashboards: agg,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.getDashboard)
		r.Get("/roles", h.listRoles)

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.listEmployees)
			r.Post("/", h.createEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getEmployee)
				r.Put("/", h.updateEmployee)
				r.Delete("/", h.deleteEmployee)
				r.Get("/trainings", h.listEmployeeTrainings)
				r.Get("/exams", h.listEmployeeExams)
			})
		})

		r.Route("/trainings", func(r chi.Router) {
			r.Get("/", h.listTrainings)
			r.Post("/", h.createTraining)
			r.Delete("/{id}", h.deleteTraining)
		})
		r.Route("/exams", func(r chi.Router) {
			r.Get("/", h.listExams)
			r.Post("/", h.createExam)
			r.Delete("/{id}", h.deleteExam)
		})
		r.Route("/incidents", func(r chi.Router) {
			r.Get("/", h.listIncidents)
			r.Post("/", h.createIncident)
			r.Delete("/{id}", h.deleteIncident)
		})

		r.Post("/import", h.importSheet)
		r.Get("/import/last", h.lastImport)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		ctx := logging.WithAttrs(
			r.Context(),
			slog.String("component", "transport.httpapi"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		next.ServeHTTP(ww, r.WithContext(ctx))

		logging.Info(
			ctx,
			"http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.Error(ctx, "request failed", slog.Any("err", errs.Loggable(err)))
		message = "internal error"
	}
	respondJSON(w, status, map[string]string{"message": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, safety.ErrDuplicateRegistration):
		return http.StatusConflict
	case errs.IsAny(err, safety.ErrEmployeeNotFound, safety.ErrRecordNotFound):
		return http.StatusNotFound
	case errs.IsAny(err,
		errBadRequest,
		safety.ErrEmployeeReference,
		safety.ErrNameRequired,
		safety.ErrRegistrationRequired,
		safety.ErrInvalidDate,
		safety.ErrInvalidExamType,
		safety.ErrInvalidExamResult,
		safety.ErrInvalidSeverity,
		safety.ErrTrainingNameRequired,
		safety.ErrIncidentTypeRequired,
		safety.ErrNegativeLostWorkdays,
		importer.ErrMissingColumns,
		sheet.ErrEmpty,
		sheet.ErrUnsupportedFormat,
		sheet.ErrSheetNotFound,
		sheet.ErrMalformed,
	):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

func pathID(r *http.Request) (uint64, error) {
	return parseID(chi.URLParam(r, "id"), "id")
}

func parseID(raw string, field string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errBadRequest, field)
	}
	return id, nil
}

// optionalQueryID reads an id filter from the query string; absent means no filter.
func optionalQueryID(r *http.Request, key string) (*uint64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(raw, key)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
