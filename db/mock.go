package db

import (
	"context"
	"sync"

	"github.com/TFMV/surrealmeter/types"
)

// MockDB keeps the stored reports in memory. The func fields replace the
// default behavior of each call.
type MockDB struct {
	InitializeFunc    func(ctx context.Context) error
	StoreAnalysisFunc func(ctx context.Context, report types.AnalysisReport) error

	mu          sync.Mutex
	reports     []types.AnalysisReport
	initialized bool
	closed      bool
}

func NewMockDB() *MockDB {
	return &MockDB{}
}

func (m *MockDB) Initialize(ctx context.Context) error {
	if m.InitializeFunc != nil {
		if err := m.InitializeFunc(ctx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = true
	return nil
}

func (m *MockDB) StoreAnalysis(ctx context.Context, report types.AnalysisReport) error {
	if m.StoreAnalysisFunc != nil {
		if err := m.StoreAnalysisFunc(ctx, report); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, report)
	return nil
}

func (m *MockDB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Reports returns the reports stored so far.
func (m *MockDB) Reports() []types.AnalysisReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.AnalysisReport(nil), m.reports...)
}

func (m *MockDB) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

func (m *MockDB) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
