package dashboard

import (
	"context"
	"fmt"
	"time"

	"medical-office/internal/domain/appointments"
)

// Period selecciona la ventana móvil. Cualquier valor distinto de week
// cae en month (comportamiento por defecto del query param).
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func ParsePeriod(s string) Period {
	if s == string(PeriodWeek) {
		return PeriodWeek
	}
	return PeriodMonth
}

// Interfaces de conteo del lado consumidor; las implementan los repositorios
// de pacientes, citas e identidades (memoria y postgres).
type PatientCounter interface {
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	CountCreatedBetween(ctx context.Context, ownerID string, from, to time.Time) (int, error)
}

type AppointmentCounter interface {
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	CountByStatus(ctx context.Context, ownerID string, status appointments.Status) (int, error)
	CountScheduledBetween(ctx context.Context, ownerID string, from, to time.Time) (int, error)
	CountScheduledBetweenByStatus(ctx context.Context, ownerID string, from, to time.Time, status appointments.Status) (int, error)
}

type DoctorCounter interface {
	CountDoctors(ctx context.Context) (int, error)
}

// Service es función pura de (dueño, ahora, periodo) sobre los contadores:
// sin mutación, reintentable. Los sub-conteos no van en una transacción,
// así que una respuesta puede reflejar un snapshot parcialmente desfasado
// si hay escrituras concurrentes; aceptado para esta carga read-mostly.
type Service struct {
	patients     PatientCounter
	appointments AppointmentCounter
	users        DoctorCounter
	now          func() time.Time
}

func NewService(patients PatientCounter, appts AppointmentCounter, users DoctorCounter) *Service {
	return &Service{
		patients:     patients,
		appointments: appts,
		users:        users,
		now:          time.Now,
	}
}

type Stats struct {
	Patients          int `json:"patients"`
	Appointments      int `json:"appointments"`
	Doctors           int `json:"doctors"`
	TodayAppointments int `json:"todayAppointments"`
	TodayCompleted    int `json:"todayCompleted"`
	TodayCancelled    int `json:"todayCancelled"`
	CompletedTotal    int `json:"completedTotal"`
	CancelledTotal    int `json:"cancelledTotal"`
}

// Stats calcula los contadores del día scoped al médico.
// El conteo de médicos es global (admin+doctor), no scoped.
func (s *Service) Stats(ctx context.Context, ownerID string) (Stats, error) {
	now := s.now()
	dayStart := startOfDay(now)
	dayEnd := endOfDay(now)

	var out Stats
	var err error

	if out.Patients, err = s.patients.CountByOwner(ctx, ownerID); err != nil {
		return Stats{}, err
	}
	if out.Appointments, err = s.appointments.CountByOwner(ctx, ownerID); err != nil {
		return Stats{}, err
	}
	if out.Doctors, err = s.users.CountDoctors(ctx); err != nil {
		return Stats{}, err
	}
	if out.TodayAppointments, err = s.appointments.CountScheduledBetween(ctx, ownerID, dayStart, dayEnd); err != nil {
		return Stats{}, err
	}
	if out.TodayCompleted, err = s.appointments.CountScheduledBetweenByStatus(ctx, ownerID, dayStart, dayEnd, appointments.StatusCompleted); err != nil {
		return Stats{}, err
	}
	if out.TodayCancelled, err = s.appointments.CountScheduledBetweenByStatus(ctx, ownerID, dayStart, dayEnd, appointments.StatusCancelled); err != nil {
		return Stats{}, err
	}
	if out.CompletedTotal, err = s.appointments.CountByStatus(ctx, ownerID, appointments.StatusCompleted); err != nil {
		return Stats{}, err
	}
	if out.CancelledTotal, err = s.appointments.CountByStatus(ctx, ownerID, appointments.StatusCancelled); err != nil {
		return Stats{}, err
	}

	return out, nil
}

type PeriodStats struct {
	Patients     int    `json:"patients"`
	Appointments int    `json:"appointments"`
	Completed    int    `json:"completed"`
	Cancelled    int    `json:"cancelled"`
	Trend        string `json:"trend"`
}

// PeriodStats: pacientes nuevos y citas agendadas en la ventana; completed y
// cancelled son totales de vida del médico, NO acotados a la ventana.
// Asimetría intencional heredada del producto; no "corregir" acá.
func (s *Service) PeriodStats(ctx context.Context, ownerID string, period Period) (PeriodStats, error) {
	now := s.now()
	start, end := periodWindow(now, period)

	var out PeriodStats
	var err error

	if out.Patients, err = s.patients.CountCreatedBetween(ctx, ownerID, start, end); err != nil {
		return PeriodStats{}, err
	}
	if out.Appointments, err = s.appointments.CountScheduledBetween(ctx, ownerID, start, end); err != nil {
		return PeriodStats{}, err
	}
	if out.Completed, err = s.appointments.CountByStatus(ctx, ownerID, appointments.StatusCompleted); err != nil {
		return PeriodStats{}, err
	}
	if out.Cancelled, err = s.appointments.CountByStatus(ctx, ownerID, appointments.StatusCancelled); err != nil {
		return PeriodStats{}, err
	}

	// Ventana anterior de igual largo: [start - largo, start).
	// Los contadores son inclusivos en ambos extremos, así que el fin
	// de la ventana previa queda un instante antes de start.
	prevStart := start.AddDate(0, 0, -periodDays(period))
	previous, err := s.patients.CountCreatedBetween(ctx, ownerID, prevStart, start.Add(-time.Nanosecond))
	if err != nil {
		return PeriodStats{}, err
	}

	out.Trend = formatTrend(out.Patients, previous)
	return out, nil
}

type ChartPoint struct {
	Label        string `json:"label"`
	Patients     int    `json:"patients"`
	Appointments int    `json:"appointments"`
}

// weekdayLabels indexado por time.Weekday (domingo = 0).
var weekdayLabels = [7]string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}

// ChartData produce los buckets del gráfico, del más viejo al más nuevo,
// rellenos con cero cuando no hubo eventos.
//   - week: 7 buckets de un día, etiquetados por día de semana.
//   - month: 4 buckets de 7 días anclados a "hoy menos múltiplos de 7",
//     etiquetados Sem 1..4 (el último bucket siempre termina hoy).
func (s *Service) ChartData(ctx context.Context, ownerID string, period Period) ([]ChartPoint, error) {
	now := s.now()

	if period == PeriodWeek {
		out := make([]ChartPoint, 0, 7)
		for i := 6; i >= 0; i-- {
			day := now.AddDate(0, 0, -i)
			from, to := startOfDay(day), endOfDay(day)

			pc, err := s.patients.CountCreatedBetween(ctx, ownerID, from, to)
			if err != nil {
				return nil, err
			}
			ac, err := s.appointments.CountScheduledBetween(ctx, ownerID, from, to)
			if err != nil {
				return nil, err
			}

			out = append(out, ChartPoint{
				Label:        weekdayLabels[day.Weekday()],
				Patients:     pc,
				Appointments: ac,
			})
		}
		return out, nil
	}

	out := make([]ChartPoint, 0, 4)
	for i := 3; i >= 0; i-- {
		to := endOfDay(now.AddDate(0, 0, -i*7))
		from := startOfDay(to.AddDate(0, 0, -6))

		pc, err := s.patients.CountCreatedBetween(ctx, ownerID, from, to)
		if err != nil {
			return nil, err
		}
		ac, err := s.appointments.CountScheduledBetween(ctx, ownerID, from, to)
		if err != nil {
			return nil, err
		}

		out = append(out, ChartPoint{
			Label:        fmt.Sprintf("Sem %d", 4-i),
			Patients:     pc,
			Appointments: ac,
		})
	}
	return out, nil
}
