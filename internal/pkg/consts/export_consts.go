package consts

const (
	ExportSheetName       = "Students Data"
	ExportFileName        = "students-data.xlsx"
	ExportContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ExportHeaderFillColor = "FFD3D3D3"
)

// Object name prefixes in the archive bucket.
const (
	GCSRolloverFolder = "rollover"
	GCSExportFolder   = "exports"
)
