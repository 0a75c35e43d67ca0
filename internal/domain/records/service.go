package records

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
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
	PatientID    string
	Diagnosis    string
	Prescription string
	Notes        string
	VisitDate    *time.Time // nil = ahora
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (MedicalRecord, error) {
	if strings.TrimSpace(ownerID) == "" {
		return MedicalRecord{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.PatientID) == "" {
		return MedicalRecord{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Diagnosis) == "" {
		return MedicalRecord{}, ErrInvalidInput
	}

	now := s.now()
	visit := now
	if in.VisitDate != nil && !in.VisitDate.IsZero() {
		visit = *in.VisitDate
	}

	rec := MedicalRecord{
		ID:           uuid.NewString(),
		PatientID:    strings.TrimSpace(in.PatientID),
		OwnerID:      ownerID,
		Diagnosis:    strings.TrimSpace(in.Diagnosis),
		Prescription: strings.TrimSpace(in.Prescription),
		Notes:        strings.TrimSpace(in.Notes),
		VisitDate:    visit,
		CreatedAt:    now,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return MedicalRecord{}, err
	}
	return rec, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]MedicalRecord, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]MedicalRecord, error) {
	return s.repo.ListByPatient(ctx, patientID)
}
