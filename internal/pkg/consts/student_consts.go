package consts

const (
	StudentStatusActive   = "active"
	StudentStatusInactive = "inactive"

	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

const (
	DateFormat        = "2006-01-02"
	DateTimeFormat    = "2006-01-02 15:04:05"
	MongoDateFormat   = "%Y-%m-%d"
	ReminderDueFormat = "02 Jan 2006"
	RolloverPeriod    = "2006-01"
)

const RecentPaymentsLimit = 5

// Report chart colours per payment mode.
const (
	ColorCash         = "#00C49F"
	ColorUPI          = "#0088FE"
	ColorBankTransfer = "#FFBB28"
)
