package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/service"

	"github.com/gorilla/mux"
)

type EntryHandler struct {
	entrySvc service.EntryService
}

func NewEntryHandler(entrySvc service.EntryService) *EntryHandler {
	return &EntryHandler{entrySvc: entrySvc}
}

type createEntryRequest struct {
	Kind          string      `json:"kind"`
	ParishID      int32       `json:"parish_id"`
	FundID        *int32      `json:"fund_id"`
	CategoryID    *int32      `json:"category_id"`
	Amount        json.Number `json:"amount"`
	PaymentMethod string      `json:"payment_method"`
	BankAccountID *int32      `json:"bank_account_id"`
	ContactID     *int32      `json:"contact_id"`
	Counterparty  string      `json:"counterparty"`
	Description   string      `json:"description"`
	Direction     string      `json:"direction"`
	EntryDate     string      `json:"entry_date"` // yyyy-mm-dd
	ImageURLs     []string    `json:"image_urls"`
}

func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("", "invalid request body"))
		return
	}

	amount, err := service.ParseAmount(req.Amount.String())
	if err != nil {
		writeError(w, err)
		return
	}

	var entryDate time.Time
	if req.EntryDate != "" {
		entryDate, err = time.Parse("2006-01-02", req.EntryDate)
		if err != nil {
			writeError(w, domain.NewValidationError("entry_date", "entry date must be yyyy-mm-dd"))
			return
		}
	}

	input := service.CreateEntryInput{
		Kind:          domain.EntryKind(req.Kind),
		ParishID:      req.ParishID,
		FundID:        req.FundID,
		CategoryID:    req.CategoryID,
		Amount:        amount,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		BankAccountID: req.BankAccountID,
		ContactID:     req.ContactID,
		Counterparty:  req.Counterparty,
		Description:   req.Description,
		Direction:     domain.AdjustmentDirection(req.Direction),
		EntryDate:     entryDate,
		ImageURLs:     req.ImageURLs,
	}

	entry, err := h.entrySvc.CreateEntry(r.Context(), actor, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.entrySvc.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type listEntriesResponse struct {
	Entries    []domain.LedgerEntry `json:"entries"`
	TotalCount int32                `json:"total_count"`
}

func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := entryFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	entries, count, err := h.entrySvc.ListEntries(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listEntriesResponse{Entries: entries, TotalCount: count})
}

func entryFilterFromQuery(r *http.Request) (domain.EntryFilter, error) {
	q := r.URL.Query()
	ints := queryInts{values: q}
	filter := domain.EntryFilter{
		Kind:         domain.EntryKind(q.Get("kind")),
		Status:       domain.EntryStatus(q.Get("status")),
		ParishID:     ints.get("parish_id"),
		FundID:       ints.get("fund_id"),
		CategoryID:   ints.get("category_id"),
		FiscalYear:   int(ints.get("fiscal_year")),
		FiscalPeriod: int(ints.get("fiscal_period")),
		Page:         ints.get("page"),
		PageSize:     ints.get("page_size"),
	}
	if ints.err != nil {
		return domain.EntryFilter{}, ints.err
	}

	for name, dest := range map[string]**time.Time{"date_from": &filter.DateFrom, "date_to": &filter.DateTo} {
		if raw := q.Get(name); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return domain.EntryFilter{}, domain.NewValidationError(name, "date must be yyyy-mm-dd")
			}
			*dest = &parsed
		}
	}

	return filter, nil
}

// queryInts reads int32 query parameters, holding on to the first malformed
// value so a bad filter surfaces as a 400 instead of silently matching
// everything.
type queryInts struct {
	values url.Values
	err    error
}

func (p *queryInts) get(name string) int32 {
	raw := p.values.Get(name)
	if raw == "" || p.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		p.err = domain.NewValidationError(name, "must be an integer")
		return 0
	}
	return int32(v)
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return int32(v), nil
}
