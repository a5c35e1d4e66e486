package service

import (
	"context"
	"time"

	"parish-ledger-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockEntryRepo
type MockEntryRepo struct {
	mock.Mock
}

func (m *MockEntryRepo) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockEntryRepo) GetByID(ctx context.Context, id int32) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}
func (m *MockEntryRepo) List(ctx context.Context, filter domain.EntryFilter) ([]domain.LedgerEntry, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.LedgerEntry), args.Get(1).(int32), args.Error(2)
}
func (m *MockEntryRepo) ListByIDs(ctx context.Context, kind domain.EntryKind, ids []int32) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, kind, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}
func (m *MockEntryRepo) Transition(ctx context.Context, kind domain.EntryKind, ids []int32, status domain.EntryStatus, actorID int32, at time.Time) ([]int32, error) {
	args := m.Called(ctx, kind, ids, status, actorID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockEntryRepo) SetReceipt(ctx context.Context, ids []int32, receiptID int32) error {
	args := m.Called(ctx, ids, receiptID)
	return args.Error(0)
}
func (m *MockEntryRepo) ListApprovedWithoutReceipt(ctx context.Context, olderThan time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// MockReceiptRepo
type MockReceiptRepo struct {
	mock.Mock
}

func (m *MockReceiptRepo) Create(ctx context.Context, receipt *domain.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}
func (m *MockReceiptRepo) GetByID(ctx context.Context, id int32) (*domain.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}
func (m *MockReceiptRepo) List(ctx context.Context, filter domain.ReceiptFilter) ([]domain.Receipt, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Receipt), args.Get(1).(int32), args.Error(2)
}

// MockSequenceRepo
type MockSequenceRepo struct {
	mock.Mock
}

func (m *MockSequenceRepo) Next(ctx context.Context, docType string, year, month int) (int, error) {
	args := m.Called(ctx, docType, year, month)
	return args.Int(0), args.Error(1)
}

// MockAuditRepo
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockAuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditLogEntry, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.AuditLogEntry), args.Get(1).(int32), args.Error(2)
}

// MockContractRepo
type MockContractRepo struct {
	mock.Mock
}

func (m *MockContractRepo) GetByID(ctx context.Context, id int32) (*domain.RentalContract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalContract), args.Error(1)
}

// MockContactRepo
type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) GetByID(ctx context.Context, id int32) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

// stubTx runs the function directly, no transaction semantics.
type stubTx struct{}

func (stubTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// stubPublisher records published events.
type stubPublisher struct {
	topics []string
	events []any
}

func (p *stubPublisher) Publish(ctx context.Context, topic string, event any) error {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

// stubAudit records audit calls without touching storage.
type stubAudit struct {
	actions []domain.AuditAction
	modules []string
}

func (a *stubAudit) Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, module string, recordID string, oldValue, newValue any) {
	a.actions = append(a.actions, action)
	a.modules = append(a.modules, module)
}

func (a *stubAudit) List(ctx context.Context, actor domain.Actor, filter domain.AuditFilter) ([]domain.AuditLogEntry, int32, error) {
	return nil, 0, nil
}
