package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/maxi-cmyk/poop-tracker/docs"
	mem "github.com/maxi-cmyk/poop-tracker/internal/adapters/storage/memory"
	pg "github.com/maxi-cmyk/poop-tracker/internal/adapters/storage/postgres"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/achievements"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/circle"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/logs"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/reports"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/streaks"
	"github.com/maxi-cmyk/poop-tracker/internal/domain/venues"
	"github.com/maxi-cmyk/poop-tracker/internal/middleware"
	"github.com/maxi-cmyk/poop-tracker/internal/platform/logger"
	"github.com/maxi-cmyk/poop-tracker/internal/platform/metrics"
	"github.com/maxi-cmyk/poop-tracker/internal/ports/activity"
	"github.com/maxi-cmyk/poop-tracker/internal/ports/auth"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Activity recibe los eventos del círculo. nil => se descartan.
	Activity activity.Publisher

	// Metrics nil => sin /metrics.
	Metrics *metrics.Metrics

	Log logger.Logger

	// DefaultLocation se usa cuando el request no trae zona horaria.
	DefaultLocation *time.Location
}

type repos struct {
	logs         logs.Repository
	streaks      streaks.Repository
	achievements achievements.Repository
	friendships  circle.Repository
	venues       venues.Repository
}

func newRepos(db *sql.DB) repos {
	if db != nil {
		return repos{
			logs:         pg.NewLogsRepo(db),
			streaks:      pg.NewStreaksRepo(db),
			achievements: pg.NewAchievementsRepo(db),
			friendships:  pg.NewFriendshipsRepo(db),
			venues:       pg.NewVenuesRepo(db),
		}
	}
	return repos{
		logs:         mem.NewLogRepo(),
		streaks:      mem.NewStreakRepo(),
		achievements: mem.NewAchievementRepo(),
		friendships:  mem.NewFriendshipRepo(),
		venues:       mem.NewVenueRepo(),
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	pub := opts.Metrics.Publisher(opts.Activity)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(log))
	r.Use(chimw.Recoverer)
	r.Use(opts.Metrics.Middleware)

	r.Use(middleware.Timezone(opts.DefaultLocation))
	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	rp := newRepos(opts.DB)

	// Services por módulo
	logsSvc := logs.NewService(rp.logs)
	streaksSvc := streaks.NewService(rp.streaks)
	venuesSvc := venues.NewService(rp.venues)
	circleSvc := circle.NewService(rp.friendships, logsSvc, pub, log.With(map[string]any{"module": "circle"}))
	achievementsSvc := achievements.NewService(rp.achievements, achievements.Sources{
		Events:  logsSvc,
		Friends: circleSvc,
		Bidets:  venuesSvc,
		Streaks: streaksSvc,
	}, pub, log.With(map[string]any{"module": "achievements"}))
	reportsSvc := reports.NewService(reports.Sources{
		Logs:         logsSvc,
		Streaks:      streaksSvc,
		Achievements: achievementsSvc,
		Friends:      circleSvc,
		Venues:       venuesSvc,
	})

	// Rutas por módulo
	logs.RegisterRoutes(r, logsSvc, logs.Deps{
		Streaks:      streaksSvc,
		Achievements: achievementsSvc,
		Activity:     pub,
		Log:          log.With(map[string]any{"module": "logs"}),
	})
	streaks.RegisterRoutes(r, streaksSvc)
	achievements.RegisterRoutes(r, achievementsSvc)
	circle.RegisterRoutes(r, circleSvc, streaksSvc)
	venues.RegisterRoutes(r, venuesSvc, achievementsSvc)
	reports.RegisterRoutes(r, reportsSvc)

	return r
}
