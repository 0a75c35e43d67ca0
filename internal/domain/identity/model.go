package identity

import "time"

// Role define los roles soportados.
// @Enum admin, doctor, patient
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RolePatient:
		return Role(s), true
	default:
		return "", false
	}
}

// User es una identidad del sistema. PasswordHash es bcrypt;
// nunca se serializa ni se loguea.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role

	CreatedAt time.Time
}
