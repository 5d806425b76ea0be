package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"medication-reminders/internal/adapters/notify/lognotify"
	mem "medication-reminders/internal/adapters/storage/memory"
	pg "medication-reminders/internal/adapters/storage/postgres"
	"medication-reminders/internal/adapters/timer/inprocess"
	"medication-reminders/internal/alarm"
	"medication-reminders/internal/domain/doselog"
	"medication-reminders/internal/domain/medicamentos"
	"medication-reminders/internal/domain/medications"
	"medication-reminders/internal/middleware"
	"medication-reminders/internal/platform/logger"
	"medication-reminders/internal/ports/alarms"
	"medication-reminders/internal/ports/auth"
	"medication-reminders/internal/ports/notify"
)

type Options struct {
	AuthVerifier auth.Verifier // puede ser nil (instancia personal abierta)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: servicio de timers. Si no viene, se arma uno in-process con
	// entrega por Notifier (y Notifier nil cae al notificador de log).
	Timers   alarms.Service
	Notifier notify.Notifier

	Log logger.Logger
}

// App expone el handler HTTP más los servicios que el main necesita tocar
// directamente (boot reconciler, dispatcher de timers).
type App struct {
	Handler http.Handler

	Medications *medications.Service
	Timers      alarms.Service
}

func New(opts Options) *App {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		medsRepo medications.Repository
		doseRepo doselog.Repository
		mediRepo medicamentos.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to memory", map[string]any{
					"err": err.Error(),
				})
			}
		}
	}

	if db != nil {
		medsRepo = pg.NewMedicationsRepo(db)
		doseRepo = pg.NewDoseLogRepo(db)
		mediRepo = pg.NewMedicamentosRepo(db)
	} else {
		medsRepo = mem.NewMedicationRepo()
		doseRepo = mem.NewDoseLogRepo()
		mediRepo = mem.NewMedicamentoRepo()
	}

	timers := opts.Timers
	if timers == nil {
		notifier := opts.Notifier
		if notifier == nil {
			notifier = lognotify.New(log)
		}
		timers = inprocess.New(notifier, log, inprocess.Options{})
	}

	// Services por módulo
	medsSvc := medications.NewService(medsRepo, alarm.New(timers, log), log)
	doseSvc := doselog.NewService(doseRepo)
	mediSvc := medicamentos.NewService(mediRepo)

	// Rutas por módulo
	medications.RegisterRoutes(r, medsSvc)
	doselog.RegisterRoutes(r, doseSvc, medsSvc)
	medicamentos.RegisterRoutes(r, mediSvc)

	return &App{
		Handler:     r,
		Medications: medsSvc,
		Timers:      timers,
	}
}

// NewRouter es el atajo cuando solo interesa el handler.
func NewRouter(opts Options) http.Handler {
	return New(opts).Handler
}
