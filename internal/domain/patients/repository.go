package patients

import (
	"context"
	"time"
)

// Repository recibe ownerID en cada lectura/escritura: un registro de otro
// dueño debe ser indistinguible de uno inexistente (ErrNotFound, nunca 403).
type Repository interface {
	Create(ctx context.Context, p Patient) error
	GetOwned(ctx context.Context, id, ownerID string) (Patient, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Patient, error) // created_at DESC
	Update(ctx context.Context, p Patient) error
	Delete(ctx context.Context, id, ownerID string) error

	CountByOwner(ctx context.Context, ownerID string) (int, error)
	CountCreatedBetween(ctx context.Context, ownerID string, from, to time.Time) (int, error)
}
