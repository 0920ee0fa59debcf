package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namrata251104/AI-FinancePilot/internal/conversation"
	"github.com/namrata251104/AI-FinancePilot/internal/domain"
	"github.com/namrata251104/AI-FinancePilot/internal/jobs"
	"github.com/namrata251104/AI-FinancePilot/internal/jobs/inmemory"
)

const sampleCSV = `date,description,amount
2025-01-05,Grocery Store,-45.20
2025-01-10,Monthly Salary,2500.00
2025-02-07,Netflix Subscription,-15.99
2025-02-14,Grocery Store,-62.35
`

func seededStore(t *testing.T) (*DatasetStore, string) {
	t.Helper()
	store := NewDatasetStore()
	txs := domain.Normalize([]domain.Transaction{
		{Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), Description: "Grocery Store", Amount: -45.20, Category: domain.CategoryFood},
		{Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Description: "Monthly Salary", Amount: 2500, Category: domain.CategoryIncome},
		{Date: time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC), Description: "Netflix Subscription", Amount: -15.99, Category: domain.CategoryBills},
	})
	ds := store.Create(txs)
	return store, ds.ID
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestUploadRawCSV(t *testing.T) {
	h := NewTransactionsHandler(NewDatasetStore(), zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(sampleCSV))
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["dataset_id"])

	report := body["report"].(map[string]interface{})
	assert.Equal(t, float64(4), report["loaded"])
	assert.Equal(t, float64(0), report["dropped"])
}

func TestUploadMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "transactions.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	h := NewTransactionsHandler(NewDatasetStore(), zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestUploadRejectsBadHeader(t *testing.T) {
	h := NewTransactionsHandler(NewDatasetStore(), zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader("foo,bar\n1,2\n"))
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsEmptyDataset(t *testing.T) {
	h := NewTransactionsHandler(NewDatasetStore(), zerolog.Nop())

	csv := "date,description,amount\nnot-a-date,Bad,-1\n"
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(csv))
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTransactions(t *testing.T) {
	store, id := seededStore(t)
	h := NewTransactionsHandler(store, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?dataset_id="+id, nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(3), body["count"])
}

func TestRequireDataset(t *testing.T) {
	store, _ := seededStore(t)
	h := NewAnalysisHandler(store, conversation.NewResponder(nil), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/health-score", nil)
	rec := httptest.NewRecorder()
	h.HealthScore(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/health-score?dataset_id=unknown", nil)
	rec = httptest.NewRecorder()
	h.HealthScore(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthScore(t *testing.T) {
	store, id := seededStore(t)
	h := NewAnalysisHandler(store, conversation.NewResponder(nil), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/health-score?dataset_id="+id, nil)
	rec := httptest.NewRecorder()
	h.HealthScore(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Greater(t, body["total_score"].(float64), 0.0)
	assert.NotEmpty(t, body["grade"])
}

func TestPredictionsValidatesMonths(t *testing.T) {
	store, id := seededStore(t)
	h := NewAnalysisHandler(store, conversation.NewResponder(nil), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/predictions?dataset_id="+id+"&months=99", nil)
	rec := httptest.NewRecorder()
	h.Predictions(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/predictions?dataset_id="+id+"&months=2", nil)
	rec = httptest.NewRecorder()
	h.Predictions(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCalendarValidatesMonth(t *testing.T) {
	store, id := seededStore(t)
	h := NewAnalysisHandler(store, conversation.NewResponder(nil), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/calendar?dataset_id="+id+"&month=13", nil)
	rec := httptest.NewRecorder()
	h.Calendar(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/calendar?dataset_id="+id+"&year=2025&month=1", nil)
	rec = httptest.NewRecorder()
	h.Calendar(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["insights"])
}

func TestUpdateBudgets(t *testing.T) {
	store, id := seededStore(t)
	h := NewBudgetsHandler(store, zerolog.Nop())

	payload := `{"dataset_id":"` + id + `","budgets":{"Food & Dining":300}}`
	req := httptest.NewRequest(http.MethodPut, "/api/budgets", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	ds, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 300.0, ds.Budgets[domain.CategoryFood])
}

func TestUpdateBudgetsRejectsNegative(t *testing.T) {
	store, id := seededStore(t)
	h := NewBudgetsHandler(store, zerolog.Nop())

	payload := `{"dataset_id":"` + id + `","budgets":{"Food & Dining":-1}}`
	req := httptest.NewRequest(http.MethodPut, "/api/budgets", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateBudgetsUnknownDataset(t *testing.T) {
	h := NewBudgetsHandler(NewDatasetStore(), zerolog.Nop())

	payload := `{"dataset_id":"nope","budgets":{}}`
	req := httptest.NewRequest(http.MethodPut, "/api/budgets", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatFallback(t *testing.T) {
	store, id := seededStore(t)
	h := NewAnalysisHandler(store, conversation.NewResponder(nil), zerolog.Nop())

	payload := `{"dataset_id":"` + id + `","query":"How much did I spend?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["answer"], "You spent")

	analysis := body["analysis"].(map[string]interface{})
	assert.Equal(t, "spending_analysis", analysis["intent"])
}

func TestChatRequiresQuery(t *testing.T) {
	store, id := seededStore(t)
	h := NewAnalysisHandler(store, conversation.NewResponder(nil), zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"dataset_id":"`+id+`"}`))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoalFeasibility(t *testing.T) {
	store, id := seededStore(t)
	h := NewAnalysisHandler(store, conversation.NewResponder(nil), zerolog.Nop())

	future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	payload := `{"dataset_id":"` + id + `","name":"Vacation","target_amount":5000,"target_date":"` + future + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/goals/feasibility", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.GoalFeasibility(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	goal := body["goal"].(map[string]interface{})
	assert.Equal(t, "Vacation", goal["name"])
	assert.Equal(t, "Custom Goal", goal["type"])

	feasibility := body["feasibility"].(map[string]interface{})
	assert.NotEmpty(t, feasibility["feasibility"])
	assert.NotEmpty(t, body["strategies"])
}

func TestGoalFeasibilityValidation(t *testing.T) {
	store, id := seededStore(t)
	h := NewAnalysisHandler(store, conversation.NewResponder(nil), zerolog.Nop())

	// Missing name.
	req := httptest.NewRequest(http.MethodPost, "/api/goals/feasibility",
		strings.NewReader(`{"dataset_id":"`+id+`","target_amount":5000,"target_date":"2030-01-01"}`))
	rec := httptest.NewRecorder()
	h.GoalFeasibility(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed date.
	req = httptest.NewRequest(http.MethodPost, "/api/goals/feasibility",
		strings.NewReader(`{"dataset_id":"`+id+`","name":"x","target_amount":5000,"target_date":"soon"}`))
	rec = httptest.NewRecorder()
	h.GoalFeasibility(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnqueueAnalysisJob(t *testing.T) {
	store, id := seededStore(t)
	jobStore := inmemory.NewStore()
	queue := inmemory.NewQueue(10, jobStore)
	defer queue.Close()

	h := NewJobsHandler(store, jobStore, queue, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"dataset_id":"`+id+`"}`))
	rec := httptest.NewRecorder()
	h.Enqueue(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	body := decodeBody(t, rec)
	jobID := body["job_id"].(string)
	require.NotEmpty(t, jobID)
	assert.Equal(t, string(jobs.JobStatusPending), body["status"])

	// The job is immediately visible through the jobs endpoints.
	rec = httptest.NewRecorder()
	h.GetJob(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID, nil), jobID)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ListJobs(rec, httptest.NewRequest(http.MethodGet, "/api/jobs?dataset_id="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["count"])
}

func TestEnqueueUnknownDataset(t *testing.T) {
	jobStore := inmemory.NewStore()
	queue := inmemory.NewQueue(10, jobStore)
	defer queue.Close()
	h := NewJobsHandler(NewDatasetStore(), jobStore, queue, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"dataset_id":"nope"}`))
	rec := httptest.NewRecorder()
	h.Enqueue(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJobNotFound(t *testing.T) {
	jobStore := inmemory.NewStore()
	queue := inmemory.NewQueue(10, jobStore)
	defer queue.Close()
	h := NewJobsHandler(NewDatasetStore(), jobStore, queue, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetJob(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil), "nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
