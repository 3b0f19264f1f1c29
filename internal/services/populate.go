package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careslot/careslot-api/internal/models"
	"github.com/careslot/careslot-api/internal/repository"
)

// populateDoctors attaches each doctor's account record, the equivalent
// of the user populate the API promises on every doctor-bearing response.
func populateDoctors(ctx context.Context, users repository.UserRepository, doctors []models.Doctor) ([]models.DoctorDetail, error) {
	ids := make([]primitive.ObjectID, 0, len(doctors))
	for _, d := range doctors {
		ids = append(ids, d.UserID)
	}

	byID, err := users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load doctor accounts: %w", err)
	}

	details := make([]models.DoctorDetail, 0, len(doctors))
	for _, d := range doctors {
		u := byID[d.UserID]
		details = append(details, models.DoctorDetail{Doctor: d, User: u.Ref()})
	}
	return details, nil
}

// populateAppointments attaches patient and doctor-with-user records to
// each booking, batching the id lookups instead of querying per row.
func populateAppointments(ctx context.Context, users repository.UserRepository, doctors repository.DoctorRepository, apts []models.Appointment) ([]models.AppointmentDetail, error) {
	doctorIDs := make([]primitive.ObjectID, 0, len(apts))
	for _, a := range apts {
		doctorIDs = append(doctorIDs, a.DoctorID)
	}

	doctorByID, err := doctors.GetByIDs(ctx, doctorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load doctors: %w", err)
	}

	userIDs := make([]primitive.ObjectID, 0, 2*len(apts))
	for _, a := range apts {
		userIDs = append(userIDs, a.PatientID)
	}
	for _, d := range doctorByID {
		userIDs = append(userIDs, d.UserID)
	}

	userByID, err := users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	details := make([]models.AppointmentDetail, 0, len(apts))
	for _, a := range apts {
		d := doctorByID[a.DoctorID]
		du := userByID[d.UserID]
		pu := userByID[a.PatientID]
		details = append(details, models.AppointmentDetail{
			Appointment: a,
			Patient:     pu.Ref(),
			Doctor:      models.DoctorDetail{Doctor: d, User: du.Ref()},
		})
	}
	return details, nil
}
