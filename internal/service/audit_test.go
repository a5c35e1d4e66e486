package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"parish-ledger-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSanitizeSnapshot_RedactsSensitiveKeysAtAnyDepth(t *testing.T) {
	snapshot := map[string]any{
		"name":     "Nguyen Van A",
		"password": "hunter2",
		"apiKey":   "abc123",
		"API_KEY":  "def456",
		"nested": map[string]any{
			"refreshToken": "tok",
			"profile": map[string]any{
				"clientSecret": "sec",
				"amount":       500000.0,
			},
		},
		"list": []any{
			map[string]any{"Password": "deep"},
		},
	}

	out := SanitizeSnapshot(snapshot)

	assert.Equal(t, "Nguyen Van A", out["name"])
	assert.Equal(t, RedactionToken, out["password"])
	assert.Equal(t, RedactionToken, out["apiKey"])
	assert.Equal(t, RedactionToken, out["API_KEY"])

	nested := out["nested"].(map[string]any)
	assert.Equal(t, RedactionToken, nested["refreshToken"])
	profile := nested["profile"].(map[string]any)
	assert.Equal(t, RedactionToken, profile["clientSecret"])
	assert.Equal(t, 500000.0, profile["amount"])

	item := out["list"].([]any)[0].(map[string]any)
	assert.Equal(t, RedactionToken, item["Password"])
}

func TestSanitizeSnapshot_NormalizesDatesToStrings(t *testing.T) {
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	out := SanitizeSnapshot(map[string]any{"approved_at": at})
	assert.Equal(t, "2024-03-10T12:00:00Z", out["approved_at"])
}

func TestSnapshot_RoundTripsStructs(t *testing.T) {
	entry := &domain.LedgerEntry{ID: 5, Code: "INC-2024-0001"}
	m := Snapshot(entry)
	require.NotNil(t, m)
	assert.Equal(t, "INC-2024-0001", m["code"])

	assert.Nil(t, Snapshot(nil))
}

func TestDiff_SkipsHousekeepingFields(t *testing.T) {
	oldVal := map[string]any{
		"id":         1,
		"status":     "pending",
		"amount":     "500000",
		"updated_at": "2024-01-01",
	}
	newVal := map[string]any{
		"id":         1,
		"status":     "approved",
		"amount":     "500000",
		"updated_at": "2024-02-02",
		"approver":   7,
	}

	assert.Equal(t, []string{"approver", "status"}, Diff(oldVal, newVal))
}

func TestRecord_SwallowsRepositoryFailure(t *testing.T) {
	auditRepo := new(MockAuditRepo)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	svc := NewAuditService(auditRepo)

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), domain.Actor{ID: 1, Role: domain.RoleSuperAdmin},
			domain.AuditActionCreate, "income", "INC-2024-0001", nil, map[string]any{"amount": "1"})
	})
	auditRepo.AssertExpectations(t)
}

func TestRecord_AttachesClientInfoAndSanitizes(t *testing.T) {
	auditRepo := new(MockAuditRepo)
	var captured *domain.AuditLogEntry
	auditRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*domain.AuditLogEntry)
	}).Return(nil)
	svc := NewAuditService(auditRepo)

	ctx := ContextWithClientInfo(context.Background(), "10.0.0.5", "curl/8.0")
	svc.Record(ctx, domain.Actor{ID: 2, Name: "Ke Toan", Role: domain.RoleKeToan},
		domain.AuditActionUpdate, "expense", "EXP-2024-0002",
		map[string]any{"password": "old"}, map[string]any{"password": "new"})

	require.NotNil(t, captured)
	assert.Equal(t, "10.0.0.5", captured.ClientIP)
	assert.Equal(t, "curl/8.0", captured.UserAgent)
	assert.Equal(t, RedactionToken, captured.OldValue["password"])
	assert.Equal(t, RedactionToken, captured.NewValue["password"])
}

func TestAuditList_RequiresPrivilegedRole(t *testing.T) {
	svc := NewAuditService(new(MockAuditRepo))
	_, _, err := svc.List(context.Background(), domain.Actor{Role: domain.RoleThuKy}, domain.AuditFilter{})
	assert.True(t, domain.IsAuthorization(err))
}
