package http

import (
	"encoding/json"
	"net/http"
	"time"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/service"

	"github.com/shopspring/decimal"
)

type RentalHandler struct {
	bridgeSvc service.RentalBridgeService
}

func NewRentalHandler(bridgeSvc service.RentalBridgeService) *RentalHandler {
	return &RentalHandler{bridgeSvc: bridgeSvc}
}

type convertPaymentRequest struct {
	Amount      json.Number `json:"amount"`
	PeriodLabel string      `json:"period_label"`
	FundID      int32       `json:"fund_id"`
	Date        string      `json:"date"` // yyyy-mm-dd
	PayerName   string      `json:"payer_name"`
	PayerBank   string      `json:"payer_bank"`
	PayerAcct   string      `json:"payer_acct"`
}

// ConvertPayment turns a rental contract payment into a pending income
// entry.
func (h *RentalHandler) ConvertPayment(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	contractID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req convertPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("", "invalid request body"))
		return
	}

	// An omitted amount lets the service derive the period's expected rent.
	var amount decimal.Decimal
	if req.Amount.String() != "" {
		amount, err = service.ParseAmount(req.Amount.String())
		if err != nil {
			writeError(w, err)
			return
		}
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, domain.NewValidationError("date", "date must be yyyy-mm-dd"))
			return
		}
	}

	payment := domain.ContractPayment{
		Amount:      amount,
		PeriodLabel: req.PeriodLabel,
		FundID:      req.FundID,
		Date:        date,
		PayerName:   req.PayerName,
		PayerBank:   req.PayerBank,
		PayerAcct:   req.PayerAcct,
	}

	entry, err := h.bridgeSvc.ConvertPayment(r.Context(), actor, contractID, payment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
