package student

import (
	"busfee/internal/pkg/common"
	"busfee/internal/pkg/store/models"
)

// StudentRequest is the editable shape of a student accepted by create and
// update.
type StudentRequest struct {
	Name                 string      `json:"name" validate:"required"`
	Class                string      `json:"class"`
	SchoolName           string      `json:"schoolName"`
	PickupLocation       string      `json:"pickupLocation"`
	DropLocation         string      `json:"dropLocation"`
	ContactInfo          string      `json:"contactInfo"`
	MonthlyFee           *float64    `json:"monthlyFee" validate:"required,gte=0"`
	Status               string      `json:"status" validate:"omitempty,oneof=active inactive"`
	FathersName          string      `json:"fathersName"`
	MothersName          string      `json:"mothersName"`
	Gender               string      `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	DOB                  common.Date `json:"dob"`
	Address              string      `json:"address"`
	DateOfJoining        common.Date `json:"dateOfJoining"`
	FathersContactNumber string      `json:"fathersContactNumber"`
}

func (r StudentRequest) Profile() models.StudentProfile {
	return models.StudentProfile{
		Name:                 r.Name,
		Class:                r.Class,
		SchoolName:           r.SchoolName,
		PickupLocation:       r.PickupLocation,
		DropLocation:         r.DropLocation,
		ContactInfo:          r.ContactInfo,
		Status:               r.Status,
		FathersName:          r.FathersName,
		MothersName:          r.MothersName,
		Gender:               r.Gender,
		DOB:                  r.DOB.Ptr(),
		Address:              r.Address,
		DateOfJoining:        r.DateOfJoining.Ptr(),
		FathersContactNumber: r.FathersContactNumber,
	}
}

// requestFromStudent seeds an update with the stored values so a partial body
// only changes the fields it names.
func requestFromStudent(s *models.Student) StudentRequest {
	fee := s.MonthlyFee
	r := StudentRequest{
		Name:                 s.Name,
		Class:                s.Class,
		SchoolName:           s.SchoolName,
		PickupLocation:       s.PickupLocation,
		DropLocation:         s.DropLocation,
		ContactInfo:          s.ContactInfo,
		MonthlyFee:           &fee,
		Status:               s.Status,
		FathersName:          s.FathersName,
		MothersName:          s.MothersName,
		Gender:               s.Gender,
		Address:              s.Address,
		FathersContactNumber: s.FathersContactNumber,
	}
	if s.DOB != nil {
		r.DOB = common.Date{Time: *s.DOB}
	}
	if s.DateOfJoining != nil {
		r.DateOfJoining = common.Date{Time: *s.DateOfJoining}
	}
	return r
}
