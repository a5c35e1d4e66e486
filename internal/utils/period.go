package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Period is one calendar month of a rental contract, the granularity rent
// is billed at.
type Period struct {
	Year  int
	Month int
}

func (p Period) Label() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// ParsePeriodLabel converts a yyyy-mm formatted label into a Period.
func ParsePeriodLabel(label string) (Period, error) {
	parts := strings.Split(label, "-")
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("invalid period format, expected yyyy-mm")
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("invalid year: %v", err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Period{}, fmt.Errorf("invalid month: %v", err)
	}

	if year < 1 {
		return Period{}, fmt.Errorf("year must be positive")
	}

	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("month must be between 1 and 12")
	}

	return Period{Year: year, Month: month}, nil
}

// DaysInMonth returns the number of days in a given month.
func DaysInMonth(year, month int) int {
	if month == 2 {
		// Check for leap year
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}

	// Months with 30 days: April, June, September, November
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}

	// All other months have 31 days
	return 31
}

// Bounds returns the first and last day of the period at midnight UTC.
func (p Period) Bounds() (start, end time.Time) {
	start = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(p.Year, time.Month(p.Month), DaysInMonth(p.Year, p.Month), 0, 0, 0, 0, time.UTC)
	return start, end
}

// ExpectedRent computes the rent owed for the period under a contract that
// runs from contractStart to contractEnd. A period the contract fully covers
// owes the monthly rent; partial coverage is prorated by day against the
// period's own length. A period the contract does not touch owes zero. A
// zero contractEnd means the contract is open ended.
func ExpectedRent(monthlyRent decimal.Decimal, p Period, contractStart, contractEnd time.Time) (decimal.Decimal, error) {
	if !contractEnd.IsZero() && contractEnd.Before(contractStart) {
		return decimal.Zero, fmt.Errorf("contract end date must be >= start date")
	}

	periodStart, periodEnd := p.Bounds()

	from := periodStart
	if contractStart.After(from) {
		from = contractStart
	}
	to := periodEnd
	if !contractEnd.IsZero() && contractEnd.Before(to) {
		to = contractEnd
	}

	if to.Before(from) {
		return decimal.Zero, nil
	}

	if from.Equal(periodStart) && to.Equal(periodEnd) {
		return monthlyRent, nil
	}

	// Both ends inclusive.
	occupied := int(to.Sub(from).Hours()/24) + 1
	total := DaysInMonth(p.Year, p.Month)
	return monthlyRent.Mul(decimal.NewFromInt(int64(occupied))).
		Div(decimal.NewFromInt(int64(total))).
		Round(0), nil
}
