package patients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError lista los campos obligatorios ausentes.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Les champs %s sont obligatoires", strings.Join(e.Fields, ", "))
}

// ChildRemover borra los recursos hijos de un paciente (citas, historiales).
// La baja del hijo sigue el ciclo de vida del padre, sin chequeo de dueño propio.
type ChildRemover interface {
	DeleteByPatient(ctx context.Context, patientID string) error
}

type Service struct {
	repo     Repository
	cascades []ChildRemover
	now      func() time.Time
}

func NewService(repo Repository, cascades ...ChildRemover) *Service {
	return &Service{
		repo:     repo,
		cascades: cascades,
		now:      time.Now,
	}
}

type CreateInput struct {
	FirstName        string
	LastName         string
	DateOfBirth      string // YYYY-MM-DD
	Gender           string
	Address          string
	Phone            string
	BloodType        string
	Allergies        string
	EmergencyContact string
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Patient, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Patient{}, ErrInvalidInput
	}

	var missing []string
	if strings.TrimSpace(in.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(in.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(in.DateOfBirth) == "" {
		missing = append(missing, "dateOfBirth")
	}
	if strings.TrimSpace(in.Gender) == "" {
		missing = append(missing, "gender")
	}
	if len(missing) > 0 {
		return Patient{}, &ValidationError{Fields: missing}
	}

	dob, err := time.Parse("2006-01-02", strings.TrimSpace(in.DateOfBirth))
	if err != nil {
		return Patient{}, fmt.Errorf("%w: dateOfBirth must be YYYY-MM-DD", ErrInvalidInput)
	}

	now := s.now()
	p := Patient{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		DateOfBirth:      dob,
		Gender:           Gender(strings.TrimSpace(in.Gender)),
		Address:          strings.TrimSpace(in.Address),
		Phone:            strings.TrimSpace(in.Phone),
		BloodType:        strings.TrimSpace(in.BloodType),
		Allergies:        strings.TrimSpace(in.Allergies),
		EmergencyContact: strings.TrimSpace(in.EmergencyContact),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) GetOwned(ctx context.Context, id, ownerID string) (Patient, error) {
	return s.repo.GetOwned(ctx, id, ownerID)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Patient, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// UpdateInput usa punteros: nil = no tocar el campo.
type UpdateInput struct {
	FirstName        *string
	LastName         *string
	DateOfBirth      *string // YYYY-MM-DD
	Gender           *string
	Address          *string
	Phone            *string
	BloodType        *string
	Allergies        *string
	EmergencyContact *string
}

func (s *Service) Update(ctx context.Context, id, ownerID string, in UpdateInput) (Patient, error) {
	current, err := s.repo.GetOwned(ctx, id, ownerID)
	if err != nil {
		return Patient{}, err
	}

	if in.FirstName != nil {
		if strings.TrimSpace(*in.FirstName) == "" {
			return Patient{}, &ValidationError{Fields: []string{"firstName"}}
		}
		current.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		if strings.TrimSpace(*in.LastName) == "" {
			return Patient{}, &ValidationError{Fields: []string{"lastName"}}
		}
		current.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", strings.TrimSpace(*in.DateOfBirth))
		if err != nil {
			return Patient{}, fmt.Errorf("%w: dateOfBirth must be YYYY-MM-DD", ErrInvalidInput)
		}
		current.DateOfBirth = dob
	}
	if in.Gender != nil {
		current.Gender = Gender(strings.TrimSpace(*in.Gender))
	}
	if in.Address != nil {
		current.Address = strings.TrimSpace(*in.Address)
	}
	if in.Phone != nil {
		current.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.BloodType != nil {
		current.BloodType = strings.TrimSpace(*in.BloodType)
	}
	if in.Allergies != nil {
		current.Allergies = strings.TrimSpace(*in.Allergies)
	}
	if in.EmergencyContact != nil {
		current.EmergencyContact = strings.TrimSpace(*in.EmergencyContact)
	}

	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Patient{}, err
	}
	return current, nil
}

// Delete borra el paciente y cascadea sus hijos.
// El gate de dueño va primero: si no es tuyo, ErrNotFound y nada se toca.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.repo.GetOwned(ctx, id, ownerID); err != nil {
		return err
	}

	for _, c := range s.cascades {
		if err := c.DeleteByPatient(ctx, id); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, id, ownerID)
}
