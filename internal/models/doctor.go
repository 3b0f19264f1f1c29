package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimeSlot is a published consultation window, clock values like "09:00".
type TimeSlot struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// Doctor is the profile extension of a user with role "doctor".
// Exactly one profile exists per doctor account; patients only see it
// once an admin has flipped IsApproved.
type Doctor struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID `bson:"user" json:"user"`
	Specialty          string             `bson:"specialty" json:"specialty"`
	Experience         int                `bson:"experience" json:"experience"`
	Qualifications     []string           `bson:"qualifications" json:"qualifications"`
	Bio                string             `bson:"bio" json:"bio"`
	ConsultationFee    float64            `bson:"consultationFee" json:"consultationFee"`
	IsApproved         bool               `bson:"isApproved" json:"isApproved"`
	AvailableTimeSlots []TimeSlot         `bson:"availableTimeSlots,omitempty" json:"availableTimeSlots,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DoctorDetail is a Doctor with its account record attached, mirroring
// what the API returns wherever a doctor is shown to another party. The
// outer User field shadows the embedded UserID reference in JSON.
type DoctorDetail struct {
	Doctor
	User UserRef `json:"user"`
}
