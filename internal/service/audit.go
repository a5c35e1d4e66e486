package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/logger"
	"parish-ledger-backend/internal/repository"

	"github.com/shopspring/decimal"
)

// RedactionToken replaces values of sensitive fields in audit snapshots.
const RedactionToken = "[REDACTED]"

var sensitiveKeyPatterns = []string{"password", "token", "secret", "apikey", "api_key"}

// housekeepingFields are skipped by Diff; they change on every write and
// carry no business meaning.
var housekeepingFields = map[string]struct{}{
	"id":         {},
	"createdAt":  {},
	"updatedAt":  {},
	"created_at": {},
	"updated_at": {},
}

type clientInfoKey struct{}

type clientInfo struct {
	ip        string
	userAgent string
}

// ContextWithClientInfo attaches the caller's IP and user agent for audit
// records. Set by the HTTP middleware.
func ContextWithClientInfo(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, clientInfo{ip: ip, userAgent: userAgent})
}

func clientInfoFromContext(ctx context.Context) clientInfo {
	if info, ok := ctx.Value(clientInfoKey{}).(clientInfo); ok {
		return info
	}
	return clientInfo{}
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// Record persists a sanitized before/after snapshot. It never returns an
// error: failures are logged and swallowed so the primary business write is
// never blocked by its own audit trail.
func (s *auditService) Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, module string, recordID string, oldValue, newValue any) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("audit record panicked", "module", module, "action", action, "panic", r)
		}
	}()

	info := clientInfoFromContext(ctx)
	entry := &domain.AuditLogEntry{
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Action:    action,
		Module:    module,
		OldValue:  SanitizeSnapshot(Snapshot(oldValue)),
		NewValue:  SanitizeSnapshot(Snapshot(newValue)),
		ClientIP:  info.ip,
		UserAgent: info.userAgent,
		CreatedAt: time.Now().UTC(),
	}
	if recordID != "" {
		entry.RecordID = &recordID
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		logger.Error("failed to write audit log", "module", module, "action", action, "error", err)
	}
}

func (s *auditService) List(ctx context.Context, actor domain.Actor, filter domain.AuditFilter) ([]domain.AuditLogEntry, int32, error) {
	if !actor.Role.CanViewAudit() {
		return nil, 0, domain.NewAuthorizationError(string(actor.Role), "view audit logs")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 100
	}
	return s.auditRepo.List(ctx, filter)
}

// Snapshot converts any value into a generic map via a JSON round-trip so
// the stored record is self-describing outside the database's native types.
func Snapshot(v any) map[string]any {
	if v == nil {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		return m
	}
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"_unserializable": fmt.Sprintf("%T", v)}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{"_value": string(data)}
	}
	return m
}

// SanitizeSnapshot walks the snapshot recursively, redacting any key whose
// name contains a sensitive substring and normalizing identifier and date
// values to plain strings.
func SanitizeSnapshot(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if isSensitiveKey(k) {
			out[k] = RedactionToken
			continue
		}
		out[k] = sanitizeValue(v)
	}
	return out
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return SanitizeSnapshot(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = sanitizeValue(item)
		}
		return out
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case decimal.Decimal:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return val
	}
}

// Diff returns the top-level field names whose serialized values differ
// between the two snapshots, housekeeping fields excluded, sorted.
func Diff(oldValue, newValue map[string]any) []string {
	changed := map[string]struct{}{}

	keys := map[string]struct{}{}
	for k := range oldValue {
		keys[k] = struct{}{}
	}
	for k := range newValue {
		keys[k] = struct{}{}
	}

	for k := range keys {
		if _, skip := housekeepingFields[k]; skip {
			continue
		}
		oldJSON, _ := json.Marshal(oldValue[k])
		newJSON, _ := json.Marshal(newValue[k])
		if string(oldJSON) != string(newJSON) {
			changed[k] = struct{}{}
		}
	}

	fields := make([]string, 0, len(changed))
	for k := range changed {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}
