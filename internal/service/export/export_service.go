package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"busfee/internal/pkg/consts"
	"busfee/internal/pkg/gcs"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"
	"busfee/internal/pkg/store/models"
	"busfee/internal/service/interfaces"
	"busfee/internal/service/ledger"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []struct {
	header string
	width  float64
}{
	{"Name", 25},
	{"Class", 15},
	{"School", 25},
	{"Monthly Fee", 15},
	{"Due Amount", 15},
	{"Total Collected", 15},
	{"Extra Paid", 15},
	{"Payment Status", 15},
	{"Last Payment Date", 20},
	{"Last Payment Amount", 20},
	{"Contact", 20},
	{"Status", 15},
}

// Uploader delivers a finished export file to a remote drop.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

type ExportServiceInterface interface {
	ExportStudents(ctx context.Context) ([]byte, error)
	DeliverExport(ctx context.Context) (*DeliveryResult, error)
}

type DeliveryResult struct {
	FileName  string `json:"fileName"`
	Size      int    `json:"size"`
	SFTPPath  string `json:"sftpPath,omitempty"`
	GCSObject string `json:"gcsObject,omitempty"`
}

type ExportService struct {
	StudentsRepo interfaces.StudentsRepoInterface
	sftpUploader Uploader
	gcsClient    gcs.GcsInterface
	now          func() time.Time
}

var _ ExportServiceInterface = (*ExportService)(nil)

// NewExportService builds the exporter. Either delivery target may be nil.
func NewExportService(studentsRepo interfaces.StudentsRepoInterface, sftpUploader Uploader,
	gcsClient gcs.GcsInterface) *ExportService {
	return &ExportService{
		StudentsRepo: studentsRepo,
		sftpUploader: sftpUploader,
		gcsClient:    gcsClient,
		now:          time.Now,
	}
}

// BuildWorkbook renders one row per student below a bold shaded header.
func BuildWorkbook(students []models.Student) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := consts.ExportSheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	for i, col := range exportColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, name+"1", col.header); err != nil {
			return nil, err
		}
	}

	// excelize takes the RGB part of the ARGB colour
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{consts.ExportHeaderFillColor[2:]}},
	})
	if err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportColumns))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for i, s := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{
			s.Name,
			s.Class,
			s.SchoolName,
			s.MonthlyFee,
			s.DueAmount,
			s.TotalCollected,
			s.ExtraPaid,
			paymentStatus(s),
			lastPaymentDate(s),
			lastPaymentAmount(s),
			s.ContactInfo,
			s.Status,
		}); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func paymentStatus(s models.Student) string {
	if s.PaymentStatus == "" {
		return string(ledger.StatusPending)
	}
	return string(s.PaymentStatus)
}

func lastPaymentDate(s models.Student) string {
	if s.LastPayment == nil || s.LastPayment.Date.IsZero() {
		return ""
	}
	return s.LastPayment.Date.Format(consts.DateFormat)
}

func lastPaymentAmount(s models.Student) float64 {
	if s.LastPayment == nil {
		return 0
	}
	return s.LastPayment.Amount
}

func (es *ExportService) ExportStudents(ctx context.Context) ([]byte, error) {
	students, err := es.StudentsRepo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	f, err := BuildWorkbook(students)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorBuildingWorkbook, err)
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorWritingWorkbook, err)
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeliverExport builds the workbook and pushes it to every configured target.
// The first delivery failure is returned after all targets were attempted.
func (es *ExportService) DeliverExport(ctx context.Context) (*DeliveryResult, error) {
	data, err := es.ExportStudents(ctx)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("%s_%s", es.now().UTC().Format("20060102_150405"), consts.ExportFileName)
	result := &DeliveryResult{FileName: fileName, Size: len(data)}
	logger.CtxInfo(ctx, log_messages.ExportDeliveryStarted, slog.String("fileName", fileName), slog.Int("size", len(data)))

	var firstErr error
	if es.sftpUploader != nil {
		path, err := es.sftpUploader.Upload(ctx, fileName, data)
		if err != nil {
			logger.CtxError(ctx, log_messages.ErrorUploadingToSFTP, err, slog.String("fileName", fileName))
			firstErr = err
		} else {
			result.SFTPPath = path
		}
	}
	if es.gcsClient != nil {
		objectName := fmt.Sprintf("%s/%s", consts.GCSExportFolder, fileName)
		if err := es.gcsClient.UploadBytes(ctx, objectName, data, consts.ExportContentType); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else {
			result.GCSObject = objectName
		}
	}
	return result, firstErr
}
