package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/atelierhq/atelier-api/internal/domain"
	"github.com/atelierhq/atelier-api/internal/events"
	"github.com/atelierhq/atelier-api/internal/store"
)

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	mock.Mock
	db *sql.DB
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.GenerationTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationTask, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*domain.GenerationTask)
	return task, args.Error(1)
}

func (m *MockTaskRepository) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	args := m.Called(ctx, id, progress)
	return args.Error(0)
}

func (m *MockTaskRepository) Complete(ctx context.Context, id uuid.UUID, resultRef uuid.UUID) error {
	args := m.Called(ctx, id, resultRef)
	return args.Error(0)
}

func (m *MockTaskRepository) Fail(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

func (m *MockTaskRepository) DB() *sql.DB {
	return m.db
}

// MockProjectStore is a mock implementation of store.ProjectStore
type MockProjectStore struct {
	mock.Mock
}

func (m *MockProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	project, _ := args.Get(0).(*domain.Project)
	return project, args.Error(1)
}

func (m *MockProjectStore) WithTx(tx *sql.Tx) store.ProjectStore {
	return m
}

// MockDocumentStore is a mock implementation of store.DocumentStore
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Create(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*domain.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentStore) FindByProject(ctx context.Context, projectID uuid.UUID, limit int) ([]*domain.Document, error) {
	args := m.Called(ctx, projectID, limit)
	docs, _ := args.Get(0).([]*domain.Document)
	return docs, args.Error(1)
}

func (m *MockDocumentStore) WithTx(tx *sql.Tx) store.DocumentStore {
	return m
}

// MockEventEmitter is a mock implementation of events.EventEmitter
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// noopDB returns a *sql.DB whose transactions begin and commit without a
// real database. All row operations still go through the mocks, so the
// transaction plumbing can run in unit tests.
func noopDB() *sql.DB {
	return sql.OpenDB(noopConnector{})
}

type noopConnector struct{}

func (noopConnector) Connect(context.Context) (driver.Conn, error) { return noopConn{}, nil }
func (noopConnector) Driver() driver.Driver                        { return noopDriver{} }

type noopDriver struct{}

func (noopDriver) Open(string) (driver.Conn, error) { return noopConn{}, nil }

type noopConn struct{}

func (noopConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (noopConn) Close() error                        { return nil }
func (noopConn) Begin() (driver.Tx, error)           { return noopTx{}, nil }

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }
