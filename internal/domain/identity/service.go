package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"medical-office/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials es el único error de login hacia afuera:
	// no distingue email desconocido de password incorrecto.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const bcryptCost = 10

type Service struct {
	repo   Repository
	issuer auth.TokenIssuer
	now    func() time.Time
}

func NewService(repo Repository, issuer auth.TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		issuer: issuer,
		now:    time.Now,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if strings.TrimSpace(in.Username) == "" ||
		strings.TrimSpace(in.Email) == "" ||
		in.Password == "" ||
		strings.TrimSpace(in.FullName) == "" {
		return User{}, ErrInvalidInput
	}

	// Sin rol explícito queda patient. La asignación de roles debería
	// protegerse en un despliegue real; se mantiene abierta como en el MVP.
	role := RolePatient
	if strings.TrimSpace(in.Role) != "" {
		parsed, ok := ParseRole(strings.TrimSpace(in.Role))
		if !ok {
			return User{}, ErrInvalidInput
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Role:         role,
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Login verifica credenciales y emite un token de sesión.
// bcrypt.CompareHashAndPassword es resistente a timing; el error de salida
// es idéntico para email desconocido y password incorrecto.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(ctx, auth.Claims{
		UserID:   u.ID,
		Role:     string(u.Role),
		FullName: u.FullName,
	})
	if err != nil {
		return User{}, "", err
	}

	return u, token, nil
}

// EnsureAdmin crea la cuenta admin por defecto si no existe (seed de dev).
func (s *Service) EnsureAdmin(ctx context.Context) (created bool, err error) {
	const adminEmail = "admin@medical.com"

	if _, err := s.repo.GetByEmail(ctx, adminEmail); err == nil {
		return false, nil
	}

	_, err = s.Register(ctx, RegisterInput{
		Username: "admin",
		Email:    adminEmail,
		Password: "admin123",
		FullName: "Administrateur Principal",
		Role:     string(RoleAdmin),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
