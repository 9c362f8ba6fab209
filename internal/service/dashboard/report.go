package dashboard

import (
	"fmt"
	"math"
	"sort"

	"busfee/internal/pkg/consts"
	"busfee/internal/pkg/store/models"
	"busfee/internal/service/ledger"
)

const unassignedSchool = "Unassigned"

func collectionRate(collected, pending float64) string {
	if collected+pending <= 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", collected/(collected+pending)*100)
}

// BuildReport derives the report from each student's last payment and
// current balance.
func BuildReport(students []models.Student) *ReportResponse {
	var totalCollected, totalPending float64
	overdue := 0

	monthly := make([]MonthlyData, 0)
	monthIndex := map[string]int{}

	modes := []PaymentModeData{
		{Name: string(ledger.ModeCash), Color: consts.ColorCash},
		{Name: string(ledger.ModeUPI), Color: consts.ColorUPI},
		{Name: string(ledger.ModeBankTransfer), Color: consts.ColorBankTransfer},
	}

	schools := map[string]*SchoolOutstanding{}

	for _, s := range students {
		totalPending += s.DueAmount
		if s.DueAmount > 0 {
			overdue++
		}

		school := s.SchoolName
		if school == "" {
			school = unassignedSchool
		}
		entry, ok := schools[school]
		if !ok {
			entry = &SchoolOutstanding{School: school}
			schools[school] = entry
		}
		entry.Outstanding += s.DueAmount
		entry.Students++

		if s.LastPayment == nil {
			continue
		}
		paid := s.LastPayment.Amount
		totalCollected += paid

		month := s.LastPayment.Date.UTC().Format("Jan")
		i, ok := monthIndex[month]
		if !ok {
			i = len(monthly)
			monthIndex[month] = i
			monthly = append(monthly, MonthlyData{Month: month})
		}
		if s.PaymentStatus == ledger.StatusCompleted {
			monthly[i].Collected += paid
		} else {
			monthly[i].Pending += math.Max(0, s.MonthlyFee-paid)
		}

		for j := range modes {
			if modes[j].Name == string(s.LastPayment.Mode) {
				modes[j].Value++
			}
		}
	}

	outstanding := make([]SchoolOutstanding, 0, len(schools))
	for _, entry := range schools {
		if entry.Outstanding > 0 {
			outstanding = append(outstanding, *entry)
		}
	}
	sort.Slice(outstanding, func(a, b int) bool {
		if outstanding[a].Outstanding != outstanding[b].Outstanding {
			return outstanding[a].Outstanding > outstanding[b].Outstanding
		}
		return outstanding[a].School < outstanding[b].School
	})

	var monthlyAverage int64
	if len(monthly) > 0 {
		monthlyAverage = int64(math.Round(totalCollected / float64(len(monthly))))
	}
	rate := collectionRate(totalCollected, totalPending)

	return &ReportResponse{
		KeyMetrics: KeyMetrics{
			CollectionRate:  rate,
			ActiveStudents:  len(students),
			MonthlyAverage:  monthlyAverage,
			OverdueAccounts: overdue,
		},
		MonthlyData:         monthly,
		PaymentModeData:     modes,
		TopRoutes:           []string{},
		OutstandingBySchool: outstanding,
		ThisMonthSummary: MonthSummary{
			Collected:      totalCollected,
			Pending:        totalPending,
			CollectionRate: rate,
		},
	}
}
