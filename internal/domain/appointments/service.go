package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrTerminalStatus: completed y cancelled no tienen salida.
	ErrTerminalStatus = errors.New("appointment status is terminal")

	// ErrInvalidTransition cubre saltos no definidos (p.ej. confirmed -> pending).
	ErrInvalidTransition = errors.New("status transition not allowed")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	PatientID string
	Date      time.Time
	Reason    string
	Notes     string
}

// Create registra una cita del médico autenticado. El médico agenda en nombre
// del paciente, así que nace auto-confirmada.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Appointment, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Appointment{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.PatientID) == "" {
		return Appointment{}, ErrInvalidInput
	}
	if in.Date.IsZero() {
		return Appointment{}, ErrInvalidInput
	}

	a := Appointment{
		ID:        uuid.NewString(),
		PatientID: strings.TrimSpace(in.PatientID),
		OwnerID:   ownerID,
		Date:      in.Date,
		Status:    StatusConfirmed,
		Reason:    strings.TrimSpace(in.Reason),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Appointment, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// SetStatus aplica la máquina de estados sobre una cita del dueño.
// Repetir el estado actual es no-op idempotente (incluye estados terminales).
// La escritura es last-write-wins: sin precondición de estado esperado.
func (s *Service) SetStatus(ctx context.Context, id, ownerID string, next Status) (Appointment, error) {
	a, err := s.repo.GetOwned(ctx, id, ownerID)
	if err != nil {
		return Appointment{}, err
	}

	if a.Status == next {
		return a, nil
	}
	if a.Status.Terminal() {
		return Appointment{}, ErrTerminalStatus
	}
	if !a.Status.CanTransitionTo(next) {
		return Appointment{}, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, ownerID, next); err != nil {
		return Appointment{}, err
	}

	a.Status = next
	return a, nil
}
