package dashboard

import (
	"context"
	"time"

	"busfee/internal/pkg/common"
	"busfee/internal/pkg/consts"
	"busfee/internal/service/interfaces"
)

type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context) (*DashboardResponse, error)
	GetPaymentsDashboard(ctx context.Context) (*PaymentsDashboardResponse, error)
	GetReport(ctx context.Context) (*ReportResponse, error)
}

type DashboardService struct {
	StudentsRepo interfaces.StudentsRepoInterface
	StatsRepo    interfaces.StatsRepoInterface
	now          func() time.Time
}

var _ DashboardServiceInterface = (*DashboardService)(nil)

func NewDashboardService(studentsRepo interfaces.StudentsRepoInterface,
	statsRepo interfaces.StatsRepoInterface) *DashboardService {
	return &DashboardService{StudentsRepo: studentsRepo, StatsRepo: statsRepo, now: time.Now}
}

// GetDashboard summarises active students. The lifetime total comes from the
// global counter, not from summing ledgers.
func (ds *DashboardService) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	totalStudents, err := ds.StudentsRepo.CountStudents(ctx, true)
	if err != nil {
		return nil, err
	}
	stats, err := ds.StatsRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	pendingDues, err := ds.StudentsRepo.SumDueAmount(ctx, true)
	if err != nil {
		return nil, err
	}
	thisMonth, err := ds.StudentsRepo.SumLastPaymentsSince(ctx, common.FirstOfMonth(ds.now()))
	if err != nil {
		return nil, err
	}
	recent, err := ds.StudentsRepo.RecentPayments(ctx, consts.RecentPaymentsLimit)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Stats: DashboardStats{
			TotalStudents:       totalStudents,
			TotalFeesCollected:  stats.TotalCollected,
			PendingDues:         pendingDues,
			ThisMonthCollection: thisMonth,
			TotalDueAmount:      pendingDues,
		},
		RecentPayments: recent,
	}, nil
}

// GetPaymentsDashboard covers every student. Its pendingDues is a count of
// students with an open balance.
func (ds *DashboardService) GetPaymentsDashboard(ctx context.Context) (*PaymentsDashboardResponse, error) {
	totalStudents, err := ds.StudentsRepo.CountStudents(ctx, false)
	if err != nil {
		return nil, err
	}
	pending, err := ds.StudentsRepo.CountPendingStudents(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := ds.StatsRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	thisMonth, err := ds.StudentsRepo.SumPaymentsSince(ctx, common.FirstOfMonth(ds.now()))
	if err != nil {
		return nil, err
	}
	recent, err := ds.StudentsRepo.RecentPaymentEntries(ctx, consts.RecentPaymentsLimit)
	if err != nil {
		return nil, err
	}

	return &PaymentsDashboardResponse{
		Stats: PaymentsDashboardStats{
			TotalStudents:       totalStudents,
			TotalCollected:      stats.TotalCollected,
			PendingDues:         pending,
			ThisMonthCollection: thisMonth,
		},
		RecentPayments: recent,
	}, nil
}

func (ds *DashboardService) GetReport(ctx context.Context) (*ReportResponse, error) {
	students, err := ds.StudentsRepo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	return BuildReport(students), nil
}
