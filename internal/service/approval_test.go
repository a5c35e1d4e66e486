package service

import (
	"context"
	"strings"
	"testing"

	"parish-ledger-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func approver() domain.Actor {
	return domain.Actor{ID: 7, Name: "Fr. Binh", Role: domain.RoleChaQuanLy}
}

func pendingIncome(id, parishID int32, amount string) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:           id,
		Code:         "INC-2024-000" + string(rune('0'+id)),
		Kind:         domain.EntryKindIncome,
		ParishID:     parishID,
		Amount:       decimal.RequireFromString(amount),
		Status:       domain.EntryStatusPending,
		Counterparty: "Nguyen Van A",
	}
}

func newApprovalService(entryRepo *MockEntryRepo, receiptRepo *MockReceiptRepo, seqRepo *MockSequenceRepo) (ApprovalService, *stubAudit, *stubPublisher) {
	audit := &stubAudit{}
	publisher := &stubPublisher{}
	svc := NewApprovalService(entryRepo, receiptRepo, NewCodeGenerator(seqRepo), audit, publisher, stubTx{})
	return svc, audit, publisher
}

func TestApprove_ConsolidatesBatchIntoOneReceipt(t *testing.T) {
	entryRepo := new(MockEntryRepo)
	receiptRepo := new(MockReceiptRepo)
	seqRepo := new(MockSequenceRepo)
	svc, audit, publisher := newApprovalService(entryRepo, receiptRepo, seqRepo)
	ctx := context.Background()

	a := pendingIncome(1, 10, "500000")
	b := pendingIncome(2, 10, "300000")
	approvedA, approvedB := a, b
	approvedA.Status = domain.EntryStatusApproved
	approvedB.Status = domain.EntryStatusApproved

	entryRepo.On("ListByIDs", ctx, domain.EntryKindIncome, []int32{1, 2}).
		Return([]domain.LedgerEntry{a, b}, nil).Once()
	entryRepo.On("Transition", mock.Anything, domain.EntryKindIncome, []int32{1, 2},
		domain.EntryStatusApproved, int32(7), mock.Anything).
		Return([]int32{1, 2}, nil)
	entryRepo.On("ListByIDs", mock.Anything, domain.EntryKindIncome, []int32{1, 2}).
		Return([]domain.LedgerEntry{approvedA, approvedB}, nil)
	seqRepo.On("Next", mock.Anything, "receipt", mock.Anything, 0).Return(12, nil)
	receiptRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Receipt) bool {
		return r.Amount.Equal(decimal.RequireFromString("800000")) && len(r.Items) == 2
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Receipt).ID = 55
	}).Return(nil)
	entryRepo.On("SetReceipt", mock.Anything, []int32{1, 2}, int32(55)).Return(nil)

	result, err := svc.Approve(ctx, approver(), domain.EntryKindIncome, []int32{1, 2}, true)
	require.NoError(t, err)

	assert.Equal(t, int32(2), result.ApprovedCount)
	assert.Equal(t, []int32{1, 2}, result.EntryIDs)
	require.NotNil(t, result.Receipt)
	assert.True(t, result.Receipt.Amount.Equal(decimal.RequireFromString("800000")))
	assert.True(t, strings.HasPrefix(result.Receipt.Code, "REC-"))
	assert.True(t, strings.HasSuffix(result.Receipt.Code, "-0012"))
	assert.Len(t, result.Receipt.Items, 2)
	assert.Equal(t, domain.ReceiptTypeIncome, result.Receipt.Type)
	// Single distinct counterparty shows its name, not a count.
	assert.Equal(t, "Nguyen Van A", result.Receipt.Counterparty)

	assert.Contains(t, audit.actions, domain.AuditActionApprove)
	assert.Contains(t, publisher.topics, "entries.approved")
	assert.Contains(t, publisher.topics, "receipt.created")
	entryRepo.AssertExpectations(t)
	receiptRepo.AssertExpectations(t)
}

func TestApprove_SecondCallIsIdempotent(t *testing.T) {
	entryRepo := new(MockEntryRepo)
	svc, _, _ := newApprovalService(entryRepo, new(MockReceiptRepo), new(MockSequenceRepo))
	ctx := context.Background()

	already := pendingIncome(1, 10, "500000")
	already.Status = domain.EntryStatusApproved

	entryRepo.On("ListByIDs", ctx, domain.EntryKindIncome, []int32{1}).
		Return([]domain.LedgerEntry{already}, nil)

	_, err := svc.Approve(ctx, approver(), domain.EntryKindIncome, []int32{1}, true)
	assert.True(t, domain.IsValidation(err))
	entryRepo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApprove_CrossParishBatchFails(t *testing.T) {
	entryRepo := new(MockEntryRepo)
	svc, _, publisher := newApprovalService(entryRepo, new(MockReceiptRepo), new(MockSequenceRepo))
	ctx := context.Background()

	p1 := pendingIncome(1, 10, "500000")
	p2 := pendingIncome(2, 20, "300000")

	entryRepo.On("ListByIDs", ctx, domain.EntryKindIncome, []int32{1, 2}).
		Return([]domain.LedgerEntry{p1, p2}, nil)

	_, err := svc.Approve(ctx, approver(), domain.EntryKindIncome, []int32{1, 2}, true)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "parishes")
	assert.Empty(t, publisher.topics)
	entryRepo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApprove_RequestValidation(t *testing.T) {
	svc, _, _ := newApprovalService(new(MockEntryRepo), new(MockReceiptRepo), new(MockSequenceRepo))
	ctx := context.Background()

	t.Run("EmptyIDList", func(t *testing.T) {
		_, err := svc.Approve(ctx, approver(), domain.EntryKindIncome, nil, true)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("AdjustmentKindRejected", func(t *testing.T) {
		_, err := svc.Approve(ctx, approver(), domain.EntryKindAdjustment, []int32{1}, true)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("RoleNotAllowed", func(t *testing.T) {
		clerk := domain.Actor{ID: 3, Role: domain.RoleThuKy}
		_, err := svc.Approve(ctx, clerk, domain.EntryKindIncome, []int32{1}, true)
		assert.True(t, domain.IsAuthorization(err))
	})
}

func TestApprove_SkipReceiptLeavesNoConsolidation(t *testing.T) {
	entryRepo := new(MockEntryRepo)
	receiptRepo := new(MockReceiptRepo)
	svc, _, _ := newApprovalService(entryRepo, receiptRepo, new(MockSequenceRepo))
	ctx := context.Background()

	a := pendingIncome(1, 10, "500000")
	approvedA := a
	approvedA.Status = domain.EntryStatusApproved

	entryRepo.On("ListByIDs", ctx, domain.EntryKindIncome, []int32{1}).
		Return([]domain.LedgerEntry{a}, nil).Once()
	entryRepo.On("Transition", mock.Anything, domain.EntryKindIncome, []int32{1},
		domain.EntryStatusApproved, int32(7), mock.Anything).
		Return([]int32{1}, nil)
	entryRepo.On("ListByIDs", mock.Anything, domain.EntryKindIncome, []int32{1}).
		Return([]domain.LedgerEntry{approvedA}, nil)

	result, err := svc.Approve(ctx, approver(), domain.EntryKindIncome, []int32{1}, false)
	require.NoError(t, err)
	assert.Nil(t, result.Receipt)
	assert.Equal(t, int32(1), result.ApprovedCount)
	receiptRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReject_TransitionsPendingEntries(t *testing.T) {
	entryRepo := new(MockEntryRepo)
	svc, _, publisher := newApprovalService(entryRepo, new(MockReceiptRepo), new(MockSequenceRepo))
	ctx := context.Background()

	a := pendingIncome(4, 10, "100000")

	entryRepo.On("ListByIDs", ctx, domain.EntryKindIncome, []int32{4}).
		Return([]domain.LedgerEntry{a}, nil)
	entryRepo.On("Transition", ctx, domain.EntryKindIncome, []int32{4},
		domain.EntryStatusRejected, int32(7), mock.Anything).
		Return([]int32{4}, nil)

	result, err := svc.Reject(ctx, approver(), domain.EntryKindIncome, []int32{4})
	require.NoError(t, err)
	assert.Equal(t, int32(1), result.ApprovedCount)
	assert.Contains(t, publisher.topics, "entries.rejected")
}

func TestApprove_DuplicateIDsAreDeduped(t *testing.T) {
	entryRepo := new(MockEntryRepo)
	receiptRepo := new(MockReceiptRepo)
	seqRepo := new(MockSequenceRepo)
	svc, _, _ := newApprovalService(entryRepo, receiptRepo, seqRepo)
	ctx := context.Background()

	a := pendingIncome(1, 10, "500000")
	approvedA := a
	approvedA.Status = domain.EntryStatusApproved

	entryRepo.On("ListByIDs", ctx, domain.EntryKindIncome, []int32{1}).
		Return([]domain.LedgerEntry{a}, nil).Once()
	entryRepo.On("Transition", mock.Anything, domain.EntryKindIncome, []int32{1},
		domain.EntryStatusApproved, int32(7), mock.Anything).
		Return([]int32{1}, nil)
	entryRepo.On("ListByIDs", mock.Anything, domain.EntryKindIncome, []int32{1}).
		Return([]domain.LedgerEntry{approvedA}, nil)

	result, err := svc.Approve(ctx, approver(), domain.EntryKindIncome, []int32{1, 1, 1}, false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), result.ApprovedCount)
}
