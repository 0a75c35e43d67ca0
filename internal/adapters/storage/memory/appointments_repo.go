package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"medical-office/internal/domain/appointments"
)

type appointmentsRepo struct {
	mu   sync.RWMutex
	byID map[string]appointments.Appointment
}

func NewAppointmentsRepo() *appointmentsRepo {
	return &appointmentsRepo{
		byID: make(map[string]appointments.Appointment),
	}
}

func (r *appointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("appointment id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("appointment already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *appointmentsRepo) GetOwned(ctx context.Context, id, ownerID string) (appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok || a.OwnerID != ownerID {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return a, nil
}

func (r *appointmentsRepo) ListByOwner(ctx context.Context, ownerID string) ([]appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	return out, nil
}

// UpdateStatus es last-write-wins: sin chequeo de versión ni CAS.
func (r *appointmentsRepo) UpdateStatus(ctx context.Context, id, ownerID string, status appointments.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.OwnerID != ownerID {
		return appointments.ErrNotFound
	}
	a.Status = status
	r.byID[id] = a
	return nil
}

func (r *appointmentsRepo) DeleteByPatient(ctx context.Context, patientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.byID {
		if a.PatientID == patientID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *appointmentsRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, a := range r.byID {
		if a.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *appointmentsRepo) CountByStatus(ctx context.Context, ownerID string, status appointments.Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, a := range r.byID {
		if a.OwnerID == ownerID && a.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *appointmentsRepo) CountScheduledBetween(ctx context.Context, ownerID string, from, to time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, a := range r.byID {
		if a.OwnerID != ownerID {
			continue
		}
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		n++
	}
	return n, nil
}

func (r *appointmentsRepo) CountScheduledBetweenByStatus(ctx context.Context, ownerID string, from, to time.Time, status appointments.Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, a := range r.byID {
		if a.OwnerID != ownerID || a.Status != status {
			continue
		}
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		n++
	}
	return n, nil
}
