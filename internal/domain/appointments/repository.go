package appointments

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	GetOwned(ctx context.Context, id, ownerID string) (Appointment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Appointment, error) // date ASC
	UpdateStatus(ctx context.Context, id, ownerID string, status Status) error
	DeleteByPatient(ctx context.Context, patientID string) error

	CountByOwner(ctx context.Context, ownerID string) (int, error)
	CountByStatus(ctx context.Context, ownerID string, status Status) (int, error)
	CountScheduledBetween(ctx context.Context, ownerID string, from, to time.Time) (int, error)
	CountScheduledBetweenByStatus(ctx context.Context, ownerID string, from, to time.Time, status Status) (int, error)
}
