package router

import (
	"context"
	"database/sql"
	"net/http"

	mem "medical-office/internal/adapters/storage/memory"
	pg "medical-office/internal/adapters/storage/postgres"
	"medical-office/internal/domain/appointments"
	"medical-office/internal/domain/dashboard"
	"medical-office/internal/domain/identity"
	"medical-office/internal/domain/patients"
	"medical-office/internal/domain/records"
	"medical-office/internal/middleware"
	"medical-office/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type Options struct {
	Issuer   auth.TokenIssuer
	Verifier auth.TokenVerifier

	// Si viene DB usa Postgres; si no, repos in-memory (dev/tests).
	DB *sql.DB

	Logger      zerolog.Logger
	CORSOrigins []string

	// SeedAdmin crea la cuenta admin por defecto al armar el router.
	SeedAdmin bool
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(opts.Logger))

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Medical App API is running"))
	})

	var (
		usersRepo interface {
			identity.Repository
			dashboard.DoctorCounter
		}
		patientsRepo interface {
			patients.Repository
			dashboard.PatientCounter
		}
		apptsRepo interface {
			appointments.Repository
			dashboard.AppointmentCounter
		}
		recordsRepo records.Repository
	)

	if opts.DB != nil {
		usersRepo = pg.NewUsersRepo(opts.DB)
		patientsRepo = pg.NewPatientsRepo(opts.DB)
		apptsRepo = pg.NewAppointmentsRepo(opts.DB)
		recordsRepo = pg.NewRecordsRepo(opts.DB)
	} else {
		usersRepo = mem.NewUsersRepo()
		patientsRepo = mem.NewPatientsRepo()
		apptsRepo = mem.NewAppointmentsRepo()
		recordsRepo = mem.NewRecordsRepo()
	}

	// Services por módulo. El borrado de paciente cascadea citas e
	// historiales también en memoria, donde no hay FK.
	identitySvc := identity.NewService(usersRepo, opts.Issuer)
	patientsSvc := patients.NewService(patientsRepo, apptsRepo, recordsRepo)
	apptsSvc := appointments.NewService(apptsRepo)
	recordsSvc := records.NewService(recordsRepo)
	dashboardSvc := dashboard.NewService(patientsRepo, apptsRepo, usersRepo)

	if opts.SeedAdmin {
		if created, err := identitySvc.EnsureAdmin(context.Background()); err != nil {
			opts.Logger.Error().Err(err).Msg("seed admin")
		} else if created {
			opts.Logger.Info().Msg("default admin created: admin@medical.com")
		}
	}

	// Registro y login quedan fuera del gate de autenticación.
	identity.RegisterRoutes(r, identitySvc)

	// Todo lo demás exige token válido y rol admin|doctor.
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.AuthContext(opts.Verifier))
		pr.Use(middleware.RequireRoles(string(identity.RoleAdmin), string(identity.RoleDoctor)))

		patients.RegisterRoutes(pr, patientsSvc)
		appointments.RegisterRoutes(pr, apptsSvc, patientsSvc)
		records.RegisterRoutes(pr, recordsSvc, patientsSvc)
		dashboard.RegisterRoutes(pr, dashboardSvc)
	})

	return r
}
