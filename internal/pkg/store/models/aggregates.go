package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecentPayment is one unwound payment history entry with the date already
// formatted by the aggregation.
type RecentPayment struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	StudentName string             `json:"studentName" bson:"studentName"`
	Amount      float64            `json:"amount" bson:"amount"`
	Date        string             `json:"date" bson:"date"`
	Mode        string             `json:"mode" bson:"mode"`
	DueAmount   float64            `json:"dueAmount" bson:"dueAmount"`
}

// PaymentEntry is RecentPayment with the raw timestamp.
type PaymentEntry struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	StudentName string             `json:"studentName" bson:"studentName"`
	Amount      float64            `json:"amount" bson:"amount"`
	Date        time.Time          `json:"date" bson:"date"`
	Mode        string             `json:"mode" bson:"mode"`
	DueAmount   float64            `json:"dueAmount" bson:"dueAmount"`
}

// SumResult decodes a {$group: {_id: null, total: {$sum: ...}}} stage.
type SumResult struct {
	Total float64 `bson:"total"`
}
