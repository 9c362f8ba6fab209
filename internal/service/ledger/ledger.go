// Package ledger holds the due and credit arithmetic for a student's bus fee
// account. Nothing here touches storage; callers load a ledger, run one of
// these functions and persist the result.
package ledger

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrInvalidPaymentMode = errors.New("payment mode must be one of Cash, UPI, Bank Transfer")
)

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusCompleted PaymentStatus = "completed"
)

type PaymentMode string

const (
	ModeCash         PaymentMode = "Cash"
	ModeUPI          PaymentMode = "UPI"
	ModeBankTransfer PaymentMode = "Bank Transfer"
)

// academic year starts in April
const academicYearStartMonth = 4

type PaymentRecord struct {
	Amount        float64     `json:"amount" bson:"amount"`
	Date          time.Time   `json:"date" bson:"date"`
	Mode          PaymentMode `json:"mode" bson:"mode"`
	Period        string      `json:"period" bson:"period"`
	CreditPortion float64     `json:"creditPortion" bson:"creditPortion"`
}

type LastPayment struct {
	Amount float64     `json:"amount" bson:"amount"`
	Date   time.Time   `json:"date" bson:"date"`
	Mode   PaymentMode `json:"mode" bson:"mode"`
	Period string      `json:"period" bson:"period"`
}

type StudentLedger struct {
	MonthlyFee     float64         `json:"monthlyFee" bson:"monthlyFee"`
	DueAmount      float64         `json:"dueAmount" bson:"dueAmount"`
	ExtraPaid      float64         `json:"extraPaid" bson:"extraPaid"`
	TotalCollected float64         `json:"totalCollected" bson:"totalCollected"`
	PaymentStatus  PaymentStatus   `json:"paymentStatus" bson:"paymentStatus"`
	PaymentHistory []PaymentRecord `json:"paymentHistory" bson:"paymentHistory"`
	LastPayment    *LastPayment    `json:"lastPayment,omitempty" bson:"lastPayment,omitempty"`
	LastRolloverAt *time.Time      `json:"lastRolloverAt,omitempty" bson:"lastRolloverAt,omitempty"`
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// DeriveStatus is completed exactly when nothing is owed.
func DeriveStatus(due float64) PaymentStatus {
	if due > 0 {
		return StatusPending
	}
	return StatusCompleted
}

// ParsePaymentMode normalizes a client supplied mode. Empty means cash.
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch strings.TrimSpace(s) {
	case "", string(ModeCash):
		return ModeCash, nil
	case string(ModeUPI):
		return ModeUPI, nil
	case string(ModeBankTransfer), "BankTransfer":
		return ModeBankTransfer, nil
	default:
		return "", ErrInvalidPaymentMode
	}
}

// ValidateAmount rejects zero, negative and non-finite amounts.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ComputeInitialDue prorates the fee over the academic year months that
// passed before joinDate. Jan to Mar belong to the year that began the
// previous April.
func ComputeInitialDue(joinDate time.Time, monthlyFee float64) float64 {
	month := int(joinDate.Month())
	monthsElapsed := month - academicYearStartMonth
	if month < academicYearStartMonth {
		monthsElapsed = month + 8
	}
	return clamp(float64(monthsElapsed) * monthlyFee)
}

func sameMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Rollover opens a new billing period, charging the monthly fee against any
// carried credit. A ledger already rolled in now's calendar month (UTC) is
// returned untouched with applied=false.
func Rollover(l StudentLedger, now time.Time) (StudentLedger, bool) {
	if l.LastRolloverAt != nil && sameMonth(*l.LastRolloverAt, now) {
		return l, false
	}

	if l.ExtraPaid >= l.MonthlyFee {
		l.ExtraPaid -= l.MonthlyFee
		l.DueAmount = 0
	} else {
		l.DueAmount = l.MonthlyFee - l.ExtraPaid
		l.ExtraPaid = 0
	}
	l.DueAmount = clamp(l.DueAmount)
	l.ExtraPaid = clamp(l.ExtraPaid)
	l.PaymentStatus = DeriveStatus(l.DueAmount)

	rolledAt := now.UTC()
	l.LastRolloverAt = &rolledAt
	return l, true
}

// ApplyPayment settles the due first and routes any remainder to credit.
// On error the input ledger is returned as is.
func ApplyPayment(l StudentLedger, amount float64, mode PaymentMode, period string, now time.Time) (StudentLedger, PaymentRecord, error) {
	if err := ValidateAmount(amount); err != nil {
		return l, PaymentRecord{}, err
	}
	if mode == "" {
		mode = ModeCash
	}

	toDue := math.Min(amount, l.DueAmount)
	if toDue < 0 {
		toDue = 0
	}
	l.DueAmount -= toDue
	remaining := amount - toDue

	creditPortion := 0.0
	if remaining > 0 {
		l.ExtraPaid += remaining
		creditPortion = remaining
	}

	l.DueAmount = clamp(l.DueAmount)
	l.ExtraPaid = clamp(l.ExtraPaid)
	l.PaymentStatus = DeriveStatus(l.DueAmount)
	l.TotalCollected += amount

	l.LastPayment = &LastPayment{Amount: amount, Date: now, Mode: mode, Period: period}

	record := PaymentRecord{
		Amount:        amount,
		Date:          now,
		Mode:          mode,
		Period:        period,
		CreditPortion: creditPortion,
	}
	history := make([]PaymentRecord, len(l.PaymentHistory), len(l.PaymentHistory)+1)
	copy(history, l.PaymentHistory)
	l.PaymentHistory = append(history, record)

	return l, record, nil
}

// NewLedger builds the ledger of a freshly enrolled student. Enrolment opens
// the period of enrolledAt's month, so a rollover in that same month leaves
// the opening due alone.
func NewLedger(monthlyFee float64, joinDate *time.Time, enrolledAt time.Time) StudentLedger {
	due := 0.0
	if joinDate != nil && !joinDate.IsZero() {
		due = ComputeInitialDue(*joinDate, monthlyFee)
	}
	opened := enrolledAt.UTC()
	return StudentLedger{
		MonthlyFee:     clamp(monthlyFee),
		DueAmount:      due,
		PaymentStatus:  DeriveStatus(due),
		PaymentHistory: []PaymentRecord{},
		LastRolloverAt: &opened,
	}
}
