package handlers

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/namrata251104/AI-FinancePilot/internal/domain"
)

// Dataset is one uploaded transaction set plus its budgets.
type Dataset struct {
	ID           string               `json:"id"`
	Transactions []domain.Transaction `json:"transactions"`
	Budgets      domain.Budgets       `json:"budgets"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// DatasetStore keeps datasets in memory. It is safe for concurrent
// use; reads get copies so callers can't mutate stored state.
type DatasetStore struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

// NewDatasetStore creates an empty store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{datasets: make(map[string]*Dataset)}
}

// Create stores a new dataset and returns its generated ID.
func (s *DatasetStore) Create(txs []domain.Transaction) *Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	ds := &Dataset{
		ID:           uuid.NewString(),
		Transactions: txs,
		Budgets:      domain.Budgets{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.datasets[ds.ID] = ds
	return snapshot(ds)
}

// Get returns a copy of a dataset.
func (s *DatasetStore) Get(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, fmt.Errorf("dataset not found: %s", id)
	}
	return snapshot(ds), nil
}

// SetTransactions replaces a dataset's transactions.
func (s *DatasetStore) SetTransactions(id string, txs []domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok {
		return fmt.Errorf("dataset not found: %s", id)
	}
	ds.Transactions = append([]domain.Transaction(nil), txs...)
	ds.UpdatedAt = time.Now()
	return nil
}

// SetBudgets replaces a dataset's budgets.
func (s *DatasetStore) SetBudgets(id string, budgets domain.Budgets) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok {
		return fmt.Errorf("dataset not found: %s", id)
	}
	copied := make(domain.Budgets, len(budgets))
	for k, v := range budgets {
		copied[k] = v
	}
	ds.Budgets = copied
	ds.UpdatedAt = time.Now()
	return nil
}

// List returns copies of all stored datasets.
func (s *DatasetStore) List() []*Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Dataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, snapshot(ds))
	}
	return out
}

func snapshot(ds *Dataset) *Dataset {
	copied := *ds
	copied.Transactions = append([]domain.Transaction(nil), ds.Transactions...)
	budgets := make(domain.Budgets, len(ds.Budgets))
	for k, v := range ds.Budgets {
		budgets[k] = v
	}
	copied.Budgets = budgets
	return &copied
}
