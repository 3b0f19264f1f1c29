package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careslot/careslot-api/internal/models"
	"github.com/careslot/careslot-api/internal/repository"
	"github.com/careslot/careslot-api/internal/utils"
)

// DirectoryService handles accounts and doctor profiles: registration,
// login, self-service updates, and the public doctor listing.
type DirectoryService struct {
	users   repository.UserRepository
	doctors repository.DoctorRepository
	tokens  *utils.TokenManager
	log     *logrus.Logger
}

func NewDirectoryService(users repository.UserRepository, doctors repository.DoctorRepository, tokens *utils.TokenManager, log *logrus.Logger) *DirectoryService {
	return &DirectoryService{users: users, doctors: doctors, tokens: tokens, log: log}
}

// RegisterInput carries the registration payload. The doctor profile
// fields are only read when Role is doctor.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	Phone    string
	Address  string

	Specialty       string
	Experience      int
	Qualifications  []string
	Bio             string
	ConsultationFee float64
}

// Register creates an account, plus an unapproved doctor profile when the
// account registers as a doctor, and returns a session token.
func (s *DirectoryService) Register(ctx context.Context, in RegisterInput) (string, *models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RolePatient
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return "", nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Role:     role,
		Phone:    in.Phone,
		Address:  in.Address,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", nil, ErrEmailTaken
		}
		return "", nil, fmt.Errorf("failed to create user: %w", err)
	}

	if role == models.RoleDoctor {
		doctor := &models.Doctor{
			UserID:          user.ID,
			Specialty:       in.Specialty,
			Experience:      in.Experience,
			Qualifications:  in.Qualifications,
			Bio:             in.Bio,
			ConsultationFee: in.ConsultationFee,
			IsApproved:      false,
		}
		if err := s.doctors.Create(ctx, doctor); err != nil {
			return "", nil, fmt.Errorf("failed to create doctor profile: %w", err)
		}
		s.log.WithFields(logrus.Fields{"user": user.ID.Hex(), "specialty": in.Specialty}).Info("doctor registered, pending approval")
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.Password = ""
	return token, user, nil
}

// Login verifies credentials and returns a session token and the user.
func (s *DirectoryService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.Password = ""
	return token, user, nil
}

// Me returns the requester's account and, for doctors, their profile.
func (s *DirectoryService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, *models.Doctor, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	user.Password = ""

	if user.Role != models.RoleDoctor {
		return user, nil, nil
	}

	doctor, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return user, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to load doctor profile: %w", err)
	}
	return user, doctor, nil
}

// UserUpdate carries the self-service account fields. Only non-empty
// fields overwrite, the partial update semantics of the source system.
type UserUpdate struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// UpdateUser applies a partial update to the requester's own account.
func (s *DirectoryService) UpdateUser(ctx context.Context, userID primitive.ObjectID, in UserUpdate) (*models.User, error) {
	fields := bson.M{}
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.Email != "" {
		fields["email"] = in.Email
	}
	if in.Phone != "" {
		fields["phone"] = in.Phone
	}
	if in.Address != "" {
		fields["address"] = in.Address
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	user, err := s.users.Update(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.Password = ""
	return user, nil
}

// DoctorUpdate carries the doctor profile fields, same partial semantics.
type DoctorUpdate struct {
	Specialty          string
	Experience         int
	Qualifications     []string
	Bio                string
	ConsultationFee    float64
	AvailableTimeSlots []models.TimeSlot
}

func (in DoctorUpdate) fields() bson.M {
	fields := bson.M{}
	if in.Specialty != "" {
		fields["specialty"] = in.Specialty
	}
	if in.Experience != 0 {
		fields["experience"] = in.Experience
	}
	if in.Qualifications != nil {
		fields["qualifications"] = in.Qualifications
	}
	if in.Bio != "" {
		fields["bio"] = in.Bio
	}
	if in.ConsultationFee != 0 {
		fields["consultationFee"] = in.ConsultationFee
	}
	if in.AvailableTimeSlots != nil {
		fields["availableTimeSlots"] = in.AvailableTimeSlots
	}
	return fields
}

// UpdateDoctorProfile applies a partial update to the requester's own
// doctor profile. The approval flag is not reachable from here.
func (s *DirectoryService) UpdateDoctorProfile(ctx context.Context, userID primitive.ObjectID, in DoctorUpdate) (*models.Doctor, error) {
	doctor, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDoctorProfileNotFound
		}
		return nil, fmt.Errorf("failed to load doctor profile: %w", err)
	}

	fields := in.fields()
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	updated, err := s.doctors.Update(ctx, doctor.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update doctor profile: %w", err)
	}
	return updated, nil
}

// UpsertDoctorProfile creates the requester's doctor profile or updates
// it when one already exists.
func (s *DirectoryService) UpsertDoctorProfile(ctx context.Context, userID primitive.ObjectID, in DoctorUpdate) (*models.Doctor, error) {
	doctor, err := s.doctors.GetByUserID(ctx, userID)
	if err == nil {
		updated, err := s.doctors.Update(ctx, doctor.ID, in.fields())
		if err != nil {
			return nil, fmt.Errorf("failed to update doctor profile: %w", err)
		}
		return updated, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load doctor profile: %w", err)
	}

	doctor = &models.Doctor{
		UserID:             userID,
		Specialty:          in.Specialty,
		Experience:         in.Experience,
		Qualifications:     in.Qualifications,
		Bio:                in.Bio,
		ConsultationFee:    in.ConsultationFee,
		AvailableTimeSlots: in.AvailableTimeSlots,
		IsApproved:         false,
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor profile: %w", err)
	}
	return doctor, nil
}

// ListApprovedDoctors returns the public doctor directory. Unapproved
// profiles never appear here.
func (s *DirectoryService) ListApprovedDoctors(ctx context.Context, filter repository.DoctorFilter) ([]models.DoctorDetail, error) {
	doctors, err := s.doctors.ListApproved(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return populateDoctors(ctx, s.users, doctors)
}

// GetDoctor returns one doctor with account details.
func (s *DirectoryService) GetDoctor(ctx context.Context, id primitive.ObjectID) (*models.DoctorDetail, error) {
	doctor, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to load doctor: %w", err)
	}

	user, err := s.users.GetByID(ctx, doctor.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load doctor account: %w", err)
	}

	detail := &models.DoctorDetail{Doctor: *doctor}
	if user != nil {
		detail.User = user.Ref()
	}
	return detail, nil
}
