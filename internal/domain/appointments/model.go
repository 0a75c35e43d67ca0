package appointments

import "time"

// Status define el ciclo de vida de una cita.
// @Enum pending, confirmed, completed, cancelled
//
// pending queda reservado para solicitudes iniciadas por el paciente;
// el flujo actual del médico crea siempre en confirmed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(s), true
	default:
		return "", false
	}
}

// Terminal indica estados sin transición de salida definida.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// transitions: pending -> confirmed|cancelled, confirmed -> completed|cancelled.
var transitions = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusCompleted: true, StatusCancelled: true},
}

func (s Status) CanTransitionTo(next Status) bool {
	return transitions[s][next]
}

// Appointment nunca se borra en el flujo normal: cancelar es un estado,
// no un delete. El único borrado físico es la cascada al eliminar el paciente.
type Appointment struct {
	ID        string
	PatientID string
	OwnerID   string

	Date   time.Time
	Status Status
	Reason string
	Notes  string

	CreatedAt time.Time
}
