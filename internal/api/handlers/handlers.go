package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/namrata251104/AI-FinancePilot/internal/alerts"
	"github.com/namrata251104/AI-FinancePilot/internal/api/middleware"
	"github.com/namrata251104/AI-FinancePilot/internal/calendar"
	"github.com/namrata251104/AI-FinancePilot/internal/categorize"
	"github.com/namrata251104/AI-FinancePilot/internal/conversation"
	"github.com/namrata251104/AI-FinancePilot/internal/domain"
	"github.com/namrata251104/AI-FinancePilot/internal/goals"
	"github.com/namrata251104/AI-FinancePilot/internal/health"
	"github.com/namrata251104/AI-FinancePilot/internal/ingest"
	"github.com/namrata251104/AI-FinancePilot/internal/jobs"
	"github.com/namrata251104/AI-FinancePilot/internal/predict"
)

// TransactionsHandler handles dataset upload and inspection endpoints.
type TransactionsHandler struct {
	store *DatasetStore
	log   zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(store *DatasetStore, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: store, log: log}
}

// Upload handles POST /api/transactions
// The body is a transaction CSV; rows are cleaned, categorized and
// stored as a new dataset.
func (h *TransactionsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	defer body.Close()

	// Multipart uploads carry the CSV in the "file" field.
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Missing file field")
			return
		}
		defer file.Close()
		body = file
	}

	txs, report, err := ingest.Load(body, time.Now())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to parse CSV upload")
		middleware.WriteError(w, http.StatusBadRequest, "Failed to parse CSV: "+err.Error())
		return
	}
	if len(txs) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "No usable transactions in upload")
		return
	}

	categorize.All(txs, nil)
	ds := h.store.Create(txs)

	h.log.Info().
		Str("dataset_id", ds.ID).
		Int("loaded", report.Loaded).
		Int("dropped", report.Dropped).
		Msg("Dataset uploaded")

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"dataset_id": ds.ID,
		"report":     report,
		"summary":    ingest.Summarize(txs),
	})
}

// Get handles GET /api/transactions?dataset_id=...
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"dataset_id":   ds.ID,
		"transactions": ds.Transactions,
		"count":        len(ds.Transactions),
		"summary":      ingest.Summarize(ds.Transactions),
	})
}

// Distribution handles GET /api/transactions/categories?dataset_id=...
func (h *TransactionsHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.dataset(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"distribution": categorize.Distribute(ds.Transactions),
		"suggestions":  categorize.SuggestCustomCategories(ds.Transactions),
	})
}

func (h *TransactionsHandler) dataset(w http.ResponseWriter, r *http.Request) (*Dataset, bool) {
	return requireDataset(h.store, w, r)
}

// BudgetsHandler manages per-dataset category budgets.
type BudgetsHandler struct {
	store *DatasetStore
	log   zerolog.Logger
}

// NewBudgetsHandler creates a new budgets handler.
func NewBudgetsHandler(store *DatasetStore, log zerolog.Logger) *BudgetsHandler {
	return &BudgetsHandler{store: store, log: log}
}

// Update handles PUT /api/budgets
func (h *BudgetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DatasetID string         `json:"dataset_id"`
		Budgets   domain.Budgets `json:"budgets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DatasetID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "dataset_id is required")
		return
	}
	for category, amount := range req.Budgets {
		if amount < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "Budget for "+category+" must not be negative")
			return
		}
	}

	if err := h.store.SetBudgets(req.DatasetID, req.Budgets); err != nil {
		middleware.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"dataset_id": req.DatasetID,
		"budgets":    req.Budgets,
	})
}

// AnalysisHandler serves the derived analytics for a dataset.
type AnalysisHandler struct {
	store     *DatasetStore
	responder *conversation.Responder
	log       zerolog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(store *DatasetStore, responder *conversation.Responder, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{store: store, responder: responder, log: log}
}

// HealthScore handles GET /api/health-score?dataset_id=...
func (h *AnalysisHandler) HealthScore(w http.ResponseWriter, r *http.Request) {
	ds, ok := requireDataset(h.store, w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, health.Calculate(ds.Transactions))
}

// Predictions handles GET /api/predictions?dataset_id=...&months=3
func (h *AnalysisHandler) Predictions(w http.ResponseWriter, r *http.Request) {
	ds, ok := requireDataset(h.store, w, r)
	if !ok {
		return
	}
	months := 3
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 24 {
			middleware.WriteError(w, http.StatusBadRequest, "months must be between 1 and 24")
			return
		}
		months = n
	}

	now := time.Now()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"spending":   predict.Spending(ds.Transactions, months, now),
		"categories": predict.CategorySpending(ds.Transactions),
	})
}

// Anomalies handles GET /api/anomalies?dataset_id=...
func (h *AnalysisHandler) Anomalies(w http.ResponseWriter, r *http.Request) {
	ds, ok := requireDataset(h.store, w, r)
	if !ok {
		return
	}
	found := predict.Anomalies(ds.Transactions)
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"anomalies": found,
		"count":     len(found),
	})
}

// BudgetRisks handles GET /api/budget-risks?dataset_id=...
func (h *AnalysisHandler) BudgetRisks(w http.ResponseWriter, r *http.Request) {
	ds, ok := requireDataset(h.store, w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"risks": predict.BudgetRisks(ds.Transactions, ds.Budgets),
	})
}

// Alerts handles GET /api/alerts?dataset_id=...
func (h *AnalysisHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	ds, ok := requireDataset(h.store, w, r)
	if !ok {
		return
	}
	generated := alerts.Generate(ds.Transactions, ds.Budgets, time.Now())
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"alerts":  generated,
		"summary": alerts.Summarize(generated),
	})
}

// Calendar handles GET /api/calendar?dataset_id=...&year=2026&month=8
func (h *AnalysisHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	ds, ok := requireDataset(h.store, w, r)
	if !ok {
		return
	}

	now := time.Now()
	year, month := now.Year(), now.Month()
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = n
	}
	if v := r.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			middleware.WriteError(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		month = time.Month(n)
	}

	view := calendar.BuildView(ds.Transactions, year, month)
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"view":     view,
		"insights": calendar.Insights(view),
	})
}

// GoalFeasibility handles POST /api/goals/feasibility
func (h *AnalysisHandler) GoalFeasibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DatasetID     string  `json:"dataset_id"`
		Name          string  `json:"name"`
		Type          string  `json:"type"`
		TargetAmount  float64 `json:"target_amount"`
		CurrentAmount float64 `json:"current_amount"`
		TargetDate    string  `json:"target_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.TargetAmount <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "name and a positive target_amount are required")
		return
	}
	targetDate, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "target_date must be YYYY-MM-DD")
		return
	}

	ds, err := h.store.Get(req.DatasetID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	if req.Type == "" {
		req.Type = "Custom Goal"
	}
	now := time.Now()
	goal := goals.New(req.Name, req.TargetAmount, targetDate, req.Type, req.CurrentAmount, now)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"goal":        goal,
		"feasibility": goals.AnalyzeFeasibility(goal, ds.Transactions),
		"strategies":  goals.GenerateStrategies(goal, ds.Transactions),
		"progress":    goals.TrackProgress(goal, ds.Transactions, now),
	})
}

// Chat handles POST /api/chat
func (h *AnalysisHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DatasetID string `json:"dataset_id"`
		Query     string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" {
		middleware.WriteError(w, http.StatusBadRequest, "query is required")
		return
	}

	ds, err := h.store.Get(req.DatasetID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	answer := h.responder.Respond(r.Context(), req.Query, ds.Transactions, time.Now())
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":    req.Query,
		"answer":   answer,
		"analysis": conversation.AnalyzeQuery(req.Query),
	})
}

// Recommendations handles GET /api/recommendations?dataset_id=...
func (h *AnalysisHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	ds, ok := requireDataset(h.store, w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": conversation.BudgetRecommendations(ds.Transactions),
	})
}

// JobsHandler exposes the async analysis queue.
type JobsHandler struct {
	store     *DatasetStore
	jobStore  jobs.JobStore
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store *DatasetStore, jobStore jobs.JobStore, publisher jobs.Publisher, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, jobStore: jobStore, publisher: publisher, log: log}
}

// Enqueue handles POST /api/analyze
func (h *JobsHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DatasetID string `json:"dataset_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := h.store.Get(req.DatasetID); err != nil {
		middleware.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	job := &jobs.AnalyzeJob{DatasetID: req.DatasetID}
	if err := h.publisher.PublishAnalyze(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue analysis job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("dataset_id", req.DatasetID).Msg("Analysis job enqueued")
	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// GetJob handles GET /api/jobs/{jobID}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.jobStore.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter := jobs.JobFilter{
		DatasetID: r.URL.Query().Get("dataset_id"),
		Status:    jobs.JobStatus(r.URL.Query().Get("status")),
	}
	list, err := h.jobStore.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}

func requireDataset(store *DatasetStore, w http.ResponseWriter, r *http.Request) (*Dataset, bool) {
	id := r.URL.Query().Get("dataset_id")
	if id == "" {
		middleware.WriteError(w, http.StatusBadRequest, "dataset_id is required")
		return nil, false
	}
	ds, err := store.Get(id)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return ds, true
}
