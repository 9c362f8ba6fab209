package consts

const (
	DefaultReminderDays = 5

	DefaultEmailTemplate = "Dear Parent, This is a reminder that the bus fee for {student_name} is due. " +
		"Amount: ₹{amount}. Please pay by {due_date}."
	DefaultSMSTemplate = "Bus fee reminder for {student_name}: ₹{amount} due by {due_date}. " +
		"Pay now to avoid late fees."
	DefaultWhatsappTemplate = "Hello {student_name}, your bus fee of ₹{amount} is due by {due_date}. " +
		"Please pay to avoid late fees."
)

const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelWhatsapp = "whatsapp"
)

const (
	ReminderKeyPrefix    = "reminder"
	NotificationReminder = "FEE_REMINDER"
	NotificationReceipt  = "PAYMENT_RECEIPT"
)
