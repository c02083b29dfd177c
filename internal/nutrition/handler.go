package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/healthtracker/internal/middleware"
	"github.com/2beens/healthtracker/internal/records"
	"github.com/2beens/healthtracker/internal/telemetry/metrics"
	"github.com/2beens/healthtracker/internal/telemetry/tracing"
	"github.com/2beens/healthtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=nutrition_test

type nutritionRepo interface {
	Add(ctx context.Context, n Nutrition) (int, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Summary(ctx context.Context, unit records.Unit) ([]PeriodAverage, error)
	Import(ctx context.Context, csv io.Reader) (int, error)
	Table(ctx context.Context) (*records.Table, error)
}

const (
	ExportFileName     = "nutrition_export.csv"
	DefaultRecentLimit = 20
	tableLabel         = "nutrition"
)

type AddNutritionResponse struct {
	Nutrition
	Total int `json:"total"`
}

type ListResponse struct {
	Entries []Entry `json:"entries"`
}

type SummaryResponse struct {
	Unit    records.Unit    `json:"unit"`
	Periods []PeriodAverage `json:"periods"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type Handler struct {
	repo           nutritionRepo
	metricsManager *metrics.Manager
	maxUploadBytes int64
}

func NewHandler(repo nutritionRepo, metricsManager *metrics.Manager, maxUploadBytes int64) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
		maxUploadBytes: maxUploadBytes,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	importsAllowedPerMin int,
) {
	nutritionRouter := mainRouter.PathPrefix("/nutrition").Subrouter()
	nutritionRouter.HandleFunc("", handler.HandleAdd).Methods("POST", "OPTIONS").Name("add-nutrition")
	nutritionRouter.HandleFunc("/recent", handler.HandleRecent).Methods("GET", "OPTIONS").Name("recent-nutrition")
	nutritionRouter.HandleFunc("/summary/{unit}", handler.HandleSummary).Methods("GET", "OPTIONS").Name("nutrition-summary")
	nutritionRouter.HandleFunc("/export", handler.HandleExport).Methods("GET", "OPTIONS").Name("export-nutrition")

	importRouter := nutritionRouter.PathPrefix("/import").Subrouter()
	importRouter.HandleFunc("", handler.HandleImport).Methods("POST", "OPTIONS").Name("import-nutrition")
	if rateLimiter != nil {
		importRouter.Use(middleware.RateLimit(rateLimiter, "nutrition-import", importsAllowedPerMin, handler.metricsManager))
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var n Nutrition
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		log.Tracef("add nutrition, unmarshal json params: %s", err)
		http.Error(w, "add nutrition failed", http.StatusBadRequest)
		return
	}

	if n.Date.IsZero() {
		n.Date = records.DateOf(time.Now())
	}
	if err := n.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	total, err := handler.repo.Add(ctx, n)
	if err != nil {
		log.Errorf("failed to add nutrition [%s]: %s", n.Date, err)
		http.Error(w, "error, failed to add nutrition", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterEntriesAdded.WithLabelValues(tableLabel).Inc()

	log.Debugf("nutrition added: %s, %d kcal, %d entries total", n.Date, n.Calories, total)

	respJson, err := json.Marshal(AddNutritionResponse{
		Nutrition: n,
		Total:     total,
	})
	if err != nil {
		log.Errorf("failed to marshal added nutrition: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.recent")
	defer span.End()

	limit := DefaultRecentLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			http.Error(w, "invalid limit (has to be a positive number)", http.StatusBadRequest)
			return
		}
	}

	entries, err := handler.repo.Recent(ctx, limit)
	if err != nil {
		log.Errorf("list recent nutrition: %s", err)
		http.Error(w, "failed to get nutrition entries", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ListResponse{Entries: entries})
	if err != nil {
		log.Errorf("marshal recent nutrition: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.summary")
	defer span.End()

	vars := mux.Vars(r)
	unit, err := records.ParseUnit(vars["unit"])
	if err != nil {
		http.Error(w, "error, unit must be one of day, week, month", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("unit", string(unit)))

	periods, err := handler.repo.Summary(ctx, unit)
	if err != nil {
		log.Errorf("nutrition summary [%s]: %s", unit, err)
		http.Error(w, "failed to get nutrition summary", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(SummaryResponse{
		Unit:    unit,
		Periods: periods,
	})
	if err != nil {
		log.Errorf("marshal nutrition summary: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.import")
	defer span.End()

	content, err := pkg.ReadUpload(w, r, handler.maxUploadBytes)
	if err != nil {
		log.Tracef("import nutrition, read upload: %s", err)
		http.Error(w, "error, no valid csv file uploaded", http.StatusBadRequest)
		return
	}

	imported, err := handler.repo.Import(ctx, bytes.NewReader(content))
	if err != nil {
		log.Errorf("import nutrition: %s", err)
		http.Error(w, "error, failed to import nutrition", http.StatusBadRequest)
		return
	}
	handler.metricsManager.CounterImports.WithLabelValues(tableLabel).Inc()
	handler.metricsManager.CounterImportedRows.WithLabelValues(tableLabel).Add(float64(imported))

	log.Infof("nutrition history imported: %d entries", imported)

	respJson, err := json.Marshal(ImportResponse{Imported: imported})
	if err != nil {
		log.Errorf("marshal import response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nutrition.export")
	defer span.End()

	table, err := handler.repo.Table(ctx)
	if err != nil {
		log.Errorf("export nutrition: %s", err)
		http.Error(w, "failed to get nutrition entries", http.StatusInternalServerError)
		return
	}
	if table.Len() == 0 {
		http.Error(w, "no nutrition data to export", http.StatusNotFound)
		return
	}

	buf := &bytes.Buffer{}
	if err := records.WriteCSV(buf, table); err != nil {
		log.Errorf("export nutrition, write csv: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterExports.WithLabelValues(tableLabel).Inc()

	pkg.WriteCSVAttachment(w, ExportFileName, buf.Bytes())
}
