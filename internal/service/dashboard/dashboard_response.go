package dashboard

import "busfee/internal/pkg/store/models"

type DashboardStats struct {
	TotalStudents       int64   `json:"totalStudents"`
	TotalFeesCollected  float64 `json:"totalFeesCollected"`
	PendingDues         float64 `json:"pendingDues"`
	ThisMonthCollection float64 `json:"thisMonthCollection"`
	TotalDueAmount      float64 `json:"totalDueAmount"`
}

type DashboardResponse struct {
	Stats          DashboardStats         `json:"stats"`
	RecentPayments []models.RecentPayment `json:"recentPayments"`
}

type PaymentsDashboardStats struct {
	TotalStudents       int64   `json:"totalStudents"`
	TotalCollected      float64 `json:"totalCollected"`
	PendingDues         int64   `json:"pendingDues"`
	ThisMonthCollection float64 `json:"thisMonthCollection"`
}

type PaymentsDashboardResponse struct {
	Stats          PaymentsDashboardStats `json:"stats"`
	RecentPayments []models.PaymentEntry  `json:"recentPayments"`
}

type KeyMetrics struct {
	CollectionRate  string `json:"collectionRate"`
	ActiveStudents  int    `json:"activeStudents"`
	MonthlyAverage  int64  `json:"monthlyAverage"`
	OverdueAccounts int    `json:"overdueAccounts"`
}

type MonthlyData struct {
	Month     string  `json:"month"`
	Collected float64 `json:"collected"`
	Pending   float64 `json:"pending"`
}

type PaymentModeData struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type SchoolOutstanding struct {
	School      string  `json:"school"`
	Outstanding float64 `json:"outstanding"`
	Students    int     `json:"students"`
}

type MonthSummary struct {
	Collected      float64 `json:"collected"`
	Pending        float64 `json:"pending"`
	CollectionRate string  `json:"collectionRate"`
}

type ReportResponse struct {
	KeyMetrics          KeyMetrics          `json:"keyMetrics"`
	MonthlyData         []MonthlyData       `json:"monthlyData"`
	PaymentModeData     []PaymentModeData   `json:"paymentModeData"`
	TopRoutes           []string            `json:"topRoutes"`
	OutstandingBySchool []SchoolOutstanding `json:"outstandingBySchool"`
	ThisMonthSummary    MonthSummary        `json:"thisMonthSummary"`
}
