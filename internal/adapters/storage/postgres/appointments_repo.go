package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"medical-office/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (
			id, patient_id, owner_id, date, status, reason, notes, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		a.ID,
		a.PatientID,
		a.OwnerID,
		a.Date,
		string(a.Status),
		a.Reason,
		a.Notes,
		a.CreatedAt,
	)
	return err
}

func (r *AppointmentsRepo) GetOwned(ctx context.Context, id, ownerID string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, appointments.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, patient_id, owner_id, date, status, reason, notes, created_at
		FROM appointments
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)

	a, err := scanAppointment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, appointments.ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentsRepo) ListByOwner(ctx context.Context, ownerID string) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, patient_id, owner_id, date, status, reason, notes, created_at
		FROM appointments
		WHERE owner_id = $1
		ORDER BY date ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *AppointmentsRepo) UpdateStatus(ctx context.Context, id, ownerID string, status appointments.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET status = $3
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID, string(status))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) DeleteByPatient(ctx context.Context, patientID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM appointments WHERE patient_id = $1
	`, patientID)
	return err
}

func (r *AppointmentsRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM appointments WHERE owner_id = $1
	`, ownerID).Scan(&n)
	return n, err
}

func (r *AppointmentsRepo) CountByStatus(ctx context.Context, ownerID string, status appointments.Status) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM appointments WHERE owner_id = $1 AND status = $2
	`, ownerID, string(status)).Scan(&n)
	return n, err
}

func (r *AppointmentsRepo) CountScheduledBetween(ctx context.Context, ownerID string, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE owner_id = $1 AND date >= $2 AND date <= $3
	`, ownerID, from, to).Scan(&n)
	return n, err
}

func (r *AppointmentsRepo) CountScheduledBetweenByStatus(ctx context.Context, ownerID string, from, to time.Time, status appointments.Status) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE owner_id = $1 AND date >= $2 AND date <= $3 AND status = $4
	`, ownerID, from, to, string(status)).Scan(&n)
	return n, err
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var status string
	if err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.OwnerID,
		&a.Date,
		&status,
		&a.Reason,
		&a.Notes,
		&a.CreatedAt,
	); err != nil {
		return appointments.Appointment{}, err
	}
	a.Status = appointments.Status(status)
	return a, nil
}
