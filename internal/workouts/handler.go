package workouts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Add(ctx context.Context, w Workout) (int, error)
	Entries(ctx context.Context) ([]Entry, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Import(ctx context.Context, csv io.Reader) (int, error)
	Table(ctx context.Context) (*records.Table, error)
}

const (
	ExportFileName     = "workouts_export.csv"
	DefaultRecentLimit = 20
	tableLabel         = "workouts"
)

type AddWorkoutResponse struct {
	Workout
	Total int `json:"total"`
}

type ListResponse struct {
	Entries []Entry `json:"entries"`
}

type ProgressResponse struct {
	Progress
	// Entries is the full history of the exercise, newest first.
	Entries []Entry `json:"entries"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type Handler struct {
	repo           workoutsRepo
	metricsManager *metrics.Manager
	maxUploadBytes int64
}

func NewHandler(repo workoutsRepo, metricsManager *metrics.Manager, maxUploadBytes int64) *Handler {
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
	workoutsRouter := mainRouter.PathPrefix("/workouts").Subrouter()
	workoutsRouter.HandleFunc("", handler.HandleAdd).Methods("POST", "OPTIONS").Name("add-workout")
	workoutsRouter.HandleFunc("/recent", handler.HandleRecent).Methods("GET", "OPTIONS").Name("recent-workouts")
	workoutsRouter.HandleFunc("/exercises", handler.HandleExercises).Methods("GET", "OPTIONS").Name("list-exercises")
	workoutsRouter.HandleFunc("/progress", handler.HandleProgress).Methods("GET", "OPTIONS").Name("exercise-progress")
	workoutsRouter.HandleFunc("/export", handler.HandleExport).Methods("GET", "OPTIONS").Name("export-workouts")

	importRouter := workoutsRouter.PathPrefix("/import").Subrouter()
	importRouter.HandleFunc("", handler.HandleImport).Methods("POST", "OPTIONS").Name("import-workouts")
	if rateLimiter != nil {
		importRouter.Use(middleware.RateLimit(rateLimiter, "workouts-import", importsAllowedPerMin, handler.metricsManager))
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("add workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	if workout.Date.IsZero() {
		workout.Date = records.DateOf(time.Now())
	}
	if err := workout.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	total, err := handler.repo.Add(ctx, workout)
	if err != nil {
		log.Errorf("failed to add workout [%s]: %s", workout.Exercise, err)
		http.Error(w, "error, failed to add workout", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterEntriesAdded.WithLabelValues(tableLabel).Inc()

	log.Debugf("workout added: [%s] %s, %d entries total", workout.Exercise, workout.Date, total)

	respJson, err := json.Marshal(AddWorkoutResponse{
		Workout: workout,
		Total:   total,
	})
	if err != nil {
		log.Errorf("failed to marshal added workout: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.recent")
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
		log.Errorf("list recent workouts: %s", err)
		http.Error(w, "failed to get workouts", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ListResponse{Entries: entries})
	if err != nil {
		log.Errorf("marshal recent workouts: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.exercises")
	defer span.End()

	entries, err := handler.repo.Entries(ctx)
	if err != nil {
		log.Errorf("list exercises: %s", err)
		http.Error(w, "failed to get exercises", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(Exercises(entries))
	if err != nil {
		log.Errorf("marshal exercises: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.progress")
	defer span.End()

	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		http.Error(w, "error, exercise empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("exercise", exercise))

	entries, err := handler.repo.Entries(ctx)
	if err != nil {
		log.Errorf("get workouts for progress [%s]: %s", exercise, err)
		http.Error(w, "failed to get workouts", http.StatusInternalServerError)
		return
	}

	progress, err := AnalyzeProgress(entries, exercise)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			http.Error(w, "no weight data for this exercise yet", http.StatusNotFound)
			return
		}
		log.Errorf("analyze progress [%s]: %s", exercise, err)
		http.Error(w, "failed to analyze progress", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ProgressResponse{
		Progress: *progress,
		Entries:  ExerciseHistory(entries, exercise),
	})
	if err != nil {
		log.Errorf("marshal progress: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.import")
	defer span.End()

	content, err := pkg.ReadUpload(w, r, handler.maxUploadBytes)
	if err != nil {
		log.Tracef("import workouts, read upload: %s", err)
		http.Error(w, "error, no valid csv file uploaded", http.StatusBadRequest)
		return
	}

	imported, err := handler.repo.Import(ctx, bytes.NewReader(content))
	if err != nil {
		log.Errorf("import workouts: %s", err)
		http.Error(w, "error, failed to import workouts", http.StatusBadRequest)
		return
	}
	handler.metricsManager.CounterImports.WithLabelValues(tableLabel).Inc()
	handler.metricsManager.CounterImportedRows.WithLabelValues(tableLabel).Add(float64(imported))

	log.Infof("workout history imported: %d entries", imported)

	respJson, err := json.Marshal(ImportResponse{Imported: imported})
	if err != nil {
		log.Errorf("marshal import response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.export")
	defer span.End()

	table, err := handler.repo.Table(ctx)
	if err != nil {
		log.Errorf("export workouts: %s", err)
		http.Error(w, "failed to get workouts", http.StatusInternalServerError)
		return
	}
	if table.Len() == 0 {
		http.Error(w, "no workout data to export", http.StatusNotFound)
		return
	}

	buf := &bytes.Buffer{}
	if err := records.WriteCSV(buf, table); err != nil {
		log.Errorf("export workouts, write csv: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterExports.WithLabelValues(tableLabel).Inc()

	pkg.WriteCSVAttachment(w, ExportFileName, buf.Bytes())
}
