package consts

const (
	StudentsCollection      = "Students"
	StatsCollection         = "Stats"
	SettingsCollection      = "Settings"
	PaymentEventsCollection = "PaymentEvents"
)

// Fixed document ids for the single-document collections.
const (
	GlobalStatsID = "global"
	SettingsID    = "app"
)
