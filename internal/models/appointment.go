package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppointmentStatus is the booking lifecycle state. Only the admin
// transition operations move it past "pending"; "confirmed" and
// "completed" exist in the stats vocabulary but have no writer.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusRejected  AppointmentStatus = "rejected"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
)

// ActiveStatuses are the states that occupy a slot for conflict checks.
var ActiveStatuses = []AppointmentStatus{StatusPending, StatusConfirmed}

type Appointment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID    primitive.ObjectID `bson:"patient" json:"patient"`
	DoctorID     primitive.ObjectID `bson:"doctor" json:"doctor"`
	Date         time.Time          `bson:"date" json:"date"`
	Time         string             `bson:"time" json:"time"`
	Slot         *TimeSlot          `bson:"timeSlot,omitempty" json:"timeSlot,omitempty"`
	Status       AppointmentStatus  `bson:"status" json:"status"`
	Prescription string             `bson:"prescription,omitempty" json:"prescription,omitempty"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AppointmentDetail is an Appointment with both parties attached, the
// way list endpoints return bookings. The outer fields shadow the
// embedded reference IDs in JSON.
type AppointmentDetail struct {
	Appointment
	Patient UserRef      `json:"patient"`
	Doctor  DoctorDetail `json:"doctor"`
}
