package router

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	objmem "pet-boarding/internal/adapters/objectstore/memory"
	mem "pet-boarding/internal/adapters/storage/memory"
	pg "pet-boarding/internal/adapters/storage/postgres"
	"pet-boarding/internal/domain/activities"
	"pet-boarding/internal/domain/caretakers"
	"pet-boarding/internal/domain/notifications"
	"pet-boarding/internal/domain/owners"
	"pet-boarding/internal/domain/pets"
	"pet-boarding/internal/domain/registration"
	"pet-boarding/internal/domain/reservations"
	"pet-boarding/internal/middleware"
	"pet-boarding/internal/platform/metrics"
	"pet-boarding/internal/ports/auth"
	"pet-boarding/internal/ports/objectstore"
	"pet-boarding/internal/realtime"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	TokenIssuer  auth.TokenIssuer

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	Pool *pgxpool.Pool

	// Opcional: store de archivos. Default: in-memory bajo /files.
	Store objectstore.Store

	Logger *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware())

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	store := opts.Store
	if store == nil {
		store = objmem.NewStore("/files")
	}

	var (
		ownersRepo        owners.Repository
		caretakersRepo    caretakers.Repository
		petsRepo          pets.Repository
		reservationsRepo  reservations.Repository
		activitiesRepo    activities.Repository
		notificationsRepo notifications.Repository
	)

	// Si no te pasan pool explícito, intenta por env (para dev/handoff)
	pool := opts.Pool
	if pool == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(context.Background(), dsn)
			if err == nil {
				pool = opened
			} else {
				log.Warn("no se pudo abrir Postgres, sigo in-memory", zap.Error(err))
			}
		}
	}

	if pool != nil {
		ownersRepo = pg.NewOwnersRepo(pool)
		caretakersRepo = pg.NewCaretakersRepo(pool)
		petsRepo = pg.NewPetsRepo(pool)
		reservationsRepo = pg.NewReservationsRepo(pool)
		activitiesRepo = pg.NewActivitiesRepo(pool)
		notificationsRepo = pg.NewNotificationsRepo(pool)
	} else {
		ownersRepo = mem.NewOwnersRepo()
		caretakersRepo = mem.NewCaretakersRepo()
		petsRepo = mem.NewPetsRepo()
		reservationsRepo = mem.NewReservationsRepo()
		activitiesRepo = mem.NewActivitiesRepo()
		notificationsRepo = mem.NewNotificationsRepo()
	}

	hub := realtime.NewHub(log)

	// Services por módulo. El orden sigue las dependencias: activities
	// es el que más módulos toca (accomplish arma el snapshot completo).
	ownersSvc := owners.NewService(ownersRepo, opts.TokenIssuer, store)
	caretakersSvc := caretakers.NewService(caretakersRepo, opts.TokenIssuer, store)
	petsSvc := pets.NewService(petsRepo, ownersSvc, store, log)
	reservationsSvc := reservations.NewService(reservationsRepo, petsSvc, ownersSvc, activitiesRepo, log)
	notificationsSvc := notifications.NewService(notificationsRepo)
	activitiesSvc := activities.NewService(
		activitiesRepo,
		reservationsSvc,
		petsSvc,
		ownersSvc,
		caretakersSvc,
		notificationsSvc,
		hub,
		log,
	)

	// Rutas por módulo
	r.Route("/auth", func(r chi.Router) {
		registration.RegisterRoutes(r, ownersSvc, caretakersSvc)
	})

	r.Route("/owner", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleOwner, auth.RoleAdmin))
		owners.RegisterRoutes(r, ownersSvc)
		pets.RegisterRoutes(r, petsSvc)
		reservations.RegisterRoutes(r, reservationsSvc)
		activities.RegisterOwnerRoutes(r, activitiesSvc)
	})

	r.Route("/caretaker", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleCaretaker, auth.RoleAdmin))
		caretakers.RegisterRoutes(r, caretakersSvc, reservationsSvc, activitiesSvc, petsSvc, ownersSvc)
	})

	r.Route("/notification", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleOwner, auth.RoleAdmin))
		notifications.RegisterRoutes(r, notificationsSvc)
	})

	r.Get("/ws", realtime.Handler(hub, opts.AuthVerifier, log))

	return r
}
