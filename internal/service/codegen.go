package service

import (
	"context"
	"fmt"
	"time"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/repository"
)

// DocType names a document family with its own code sequence.
type DocType string

const (
	DocTypeIncome   DocType = "income"
	DocTypeExpense  DocType = "expense"
	DocTypeReceipt  DocType = "receipt"
	DocTypeContract DocType = "contract"
	DocTypePayroll  DocType = "payroll"
)

type codeScheme struct {
	prefix  string
	width   int
	monthly bool // sequence resets per month instead of per year
}

var codeSchemes = map[DocType]codeScheme{
	DocTypeIncome:   {prefix: "INC", width: 4},
	DocTypeExpense:  {prefix: "EXP", width: 4},
	DocTypeReceipt:  {prefix: "REC", width: 4},
	DocTypeContract: {prefix: "CTR", width: 3},
	DocTypePayroll:  {prefix: "PAY", width: 4, monthly: true},
}

// DocTypeForKind maps a ledger entry kind to its document family.
// Adjustments share the income sequence when increasing and the expense
// sequence when decreasing would be ambiguous, so they get income codes with
// the direction recorded on the entry itself.
func DocTypeForKind(kind domain.EntryKind) DocType {
	if kind == domain.EntryKindExpense {
		return DocTypeExpense
	}
	return DocTypeIncome
}

type codeGenerator struct {
	seqRepo repository.SequenceRepository
}

func NewCodeGenerator(seqRepo repository.SequenceRepository) CodeGenerator {
	return &codeGenerator{seqRepo: seqRepo}
}

// NextCode produces the next sequential code for the document type within
// the calendar year (or month) of the reference date. The sequence value
// comes from an atomic counter, so concurrent calls never collide.
func (g *codeGenerator) NextCode(ctx context.Context, docType DocType, date time.Time) (string, error) {
	scheme, ok := codeSchemes[docType]
	if !ok {
		return "", domain.NewValidationError("doc_type", fmt.Sprintf("unknown document type %q", docType))
	}

	year := date.Year()
	month := 0
	if scheme.monthly {
		month = int(date.Month())
	}

	seq, err := g.seqRepo.Next(ctx, string(docType), year, month)
	if err != nil {
		return "", fmt.Errorf("next sequence for %s: %w", docType, err)
	}

	if scheme.monthly {
		return fmt.Sprintf("%s-%d%02d-%0*d", scheme.prefix, year, month, scheme.width, seq), nil
	}
	return fmt.Sprintf("%s-%d-%0*d", scheme.prefix, year, scheme.width, seq), nil
}
