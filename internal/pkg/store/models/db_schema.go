package models

import (
	"time"

	"busfee/internal/service/ledger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentProfile is the part of a student an administrator edits directly.
type StudentProfile struct {
	Name                 string     `json:"name" bson:"name"`
	Class                string     `json:"class" bson:"class"`
	SchoolName           string     `json:"schoolName" bson:"schoolName"`
	PickupLocation       string     `json:"pickupLocation" bson:"pickupLocation"`
	DropLocation         string     `json:"dropLocation" bson:"dropLocation"`
	ContactInfo          string     `json:"contactInfo" bson:"contactInfo"`
	Status               string     `json:"status" bson:"status"`
	FathersName          string     `json:"fathersName" bson:"fathersName"`
	MothersName          string     `json:"mothersName" bson:"mothersName"`
	Gender               string     `json:"gender,omitempty" bson:"gender,omitempty"`
	DOB                  *time.Time `json:"dob,omitempty" bson:"dob,omitempty"`
	Address              string     `json:"address" bson:"address"`
	DateOfJoining        *time.Time `json:"dateOfJoining,omitempty" bson:"dateOfJoining,omitempty"`
	FathersContactNumber string     `json:"fathersContactNumber" bson:"fathersContactNumber"`
}

// Student is one document of the Students collection: profile and ledger
// stored side by side, plus a version used for optimistic ledger writes.
type Student struct {
	ID                   primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	StudentProfile       `bson:",inline"`
	ledger.StudentLedger `bson:",inline"`
	Version              int64     `json:"version" bson:"version"`
	CreatedAt            time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Stats struct {
	ID             string    `json:"-" bson:"_id"`
	TotalCollected float64   `json:"totalCollected" bson:"totalCollected"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Settings struct {
	ID                    string    `json:"-" bson:"_id"`
	EmailNotifications    bool      `json:"emailNotifications" bson:"emailNotifications"`
	SMSNotifications      bool      `json:"smsNotifications" bson:"smsNotifications"`
	WhatsappNotifications bool      `json:"whatsappNotifications" bson:"whatsappNotifications"`
	ReminderDays          int       `json:"reminderDays" bson:"reminderDays"`
	EmailTemplate         string    `json:"emailTemplate" bson:"emailTemplate"`
	SMSTemplate           string    `json:"smsTemplate" bson:"smsTemplate"`
	WhatsappTemplate      string    `json:"whatsappTemplate" bson:"whatsappTemplate"`
	UpdatedAt             time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PaymentEvent is the outbox entry written in the same transaction as the
// ledger update and later published to Kafka.
type PaymentEvent struct {
	ID                  primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	EventID             string             `json:"eventId" bson:"eventId"`
	StudentID           primitive.ObjectID `json:"studentId" bson:"studentId"`
	StudentName         string             `json:"studentName" bson:"studentName"`
	Amount              float64            `json:"amount" bson:"amount"`
	CreditPortion       float64            `json:"creditPortion" bson:"creditPortion"`
	Mode                ledger.PaymentMode `json:"mode" bson:"mode"`
	Period              string             `json:"period" bson:"period"`
	DueAfter            float64            `json:"dueAfter" bson:"dueAfter"`
	ExtraAfter          float64            `json:"extraAfter" bson:"extraAfter"`
	TotalCollectedAfter float64            `json:"totalCollectedAfter" bson:"totalCollectedAfter"`
	PaidAt              time.Time          `json:"paidAt" bson:"paidAt"`
	PublishedToKafka    bool               `json:"publishedToKafka" bson:"publishedToKafka"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
}
