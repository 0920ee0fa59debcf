package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/namrata251104/AI-FinancePilot/internal/api/handlers"
	"github.com/namrata251104/AI-FinancePilot/internal/api/middleware"
	"github.com/namrata251104/AI-FinancePilot/internal/categorize"
	"github.com/namrata251104/AI-FinancePilot/internal/config"
	"github.com/namrata251104/AI-FinancePilot/internal/conversation"
	"github.com/namrata251104/AI-FinancePilot/internal/jobs"
	"github.com/namrata251104/AI-FinancePilot/internal/jobs/inmemory"
	"github.com/namrata251104/AI-FinancePilot/internal/logger"
)

func main() {
	cfg := config.Load()

	// Parse command-line flags
	var (
		port = flag.String("port", cfg.Port, "HTTP server port")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New("finance-pilot-api")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Conversational model is optional; everything else works without it.
	var model conversation.Model
	if cfg.EnableModel && cfg.GeminiAPIKey != "" {
		gemini, err := conversation.NewGeminiModel(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Model unavailable - chat will use fallback responses")
		} else {
			model = gemini
		}
	} else {
		log.Warn().Msg("No model configured - chat will use fallback responses")
	}
	responder := conversation.NewResponder(model)

	// Initialize storage and job infrastructure
	datasetStore := handlers.NewDatasetStore()
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.QueueSize, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	// Analysis jobs recategorize a dataset in the background.
	jobHandler := func(ctx context.Context, job jobs.Job) error {
		analyzeJob, ok := job.(*jobs.AnalyzeJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", analyzeJob.JobID).
			Str("dataset_id", analyzeJob.DatasetID).
			Msg("Processing analysis job")

		jobCtx, cancel := context.WithTimeout(ctx, cfg.JobTimeout)
		defer cancel()

		ds, err := datasetStore.Get(analyzeJob.DatasetID)
		if err != nil {
			log.Error().Err(err).Str("job_id", analyzeJob.JobID).Msg("Dataset lookup failed")
			return err
		}

		categorize.All(ds.Transactions, nil)
		if err := jobCtx.Err(); err != nil {
			return err
		}
		if err := datasetStore.SetTransactions(ds.ID, ds.Transactions); err != nil {
			log.Error().Err(err).Str("job_id", analyzeJob.JobID).Msg("Failed to store recategorized dataset")
			return err
		}

		log.Info().
			Str("job_id", analyzeJob.JobID).
			Str("dataset_id", analyzeJob.DatasetID).
			Msg("Analysis job completed")
		return nil
	}

	go func() {
		log.Info().Msg("Starting job worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	// Initialize handlers
	transactionsHandler := handlers.NewTransactionsHandler(datasetStore, log)
	budgetsHandler := handlers.NewBudgetsHandler(datasetStore, log)
	analysisHandler := handlers.NewAnalysisHandler(datasetStore, responder, log)
	jobsHandler := handlers.NewJobsHandler(datasetStore, jobStore, jobQueue, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			transactionsHandler.Upload(w, r)
		case http.MethodGet:
			transactionsHandler.Get(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.Distribution(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/budgets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut || r.Method == http.MethodPost {
			budgetsHandler.Update(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	get := func(path string, handle http.HandlerFunc) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				handle(w, r)
			} else {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
		})
	}
	post := func(path string, handle http.HandlerFunc) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				handle(w, r)
			} else {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
		})
	}

	get("/api/health-score", analysisHandler.HealthScore)
	get("/api/predictions", analysisHandler.Predictions)
	get("/api/anomalies", analysisHandler.Anomalies)
	get("/api/budget-risks", analysisHandler.BudgetRisks)
	get("/api/alerts", analysisHandler.Alerts)
	get("/api/calendar", analysisHandler.Calendar)
	get("/api/recommendations", analysisHandler.Recommendations)
	post("/api/goals/feasibility", analysisHandler.GoalFeasibility)
	post("/api/chat", analysisHandler.Chat)
	post("/api/analyze", jobsHandler.Enqueue)

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(
					middleware.Auth(mux),
				),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop job queue cleanly")
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
