package gdrivehttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/afero"
	"github.com/yourname/gdrive_lite/internal/config"
	"github.com/yourname/gdrive_lite/internal/mirror"
	"github.com/yourname/gdrive_lite/internal/notify"
	"github.com/yourname/gdrive_lite/internal/storage"
	"github.com/yourname/gdrive_lite/internal/usecase/filesvc"
)

const dialTimeout = 10 * time.Second

type Deps struct {
	Storage *storage.Dir
	Files   filesvc.Service
	// Hub обслуживает /socket; при nil маршрут не регистрируется.
	Hub     *notify.Hub
	Emitter notify.Emitter
	Mirror  mirror.Mirror

	MessageInterval time.Duration
	// GCTTL задаёт возраст временного файла, после которого /admin/gc его удаляет.
	GCTTL  time.Duration
	Now    func() time.Time
	Logger *slog.Logger

	// Closers закрываются в Server.Close.
	Closers []io.Closer
}

type Server struct {
	Deps
}

// NewServer собирает зависимости из конфигурации и возвращает готовый обработчик.
func NewServer(cfg *config.Config) (http.Handler, *Server, error) {
	log := slog.Default()

	dir, err := storage.New(afero.NewOsFs(), cfg.StorageDir)
	if err != nil {
		return nil, nil, err
	}

	deps := Deps{
		Storage:         dir,
		Files:           filesvc.New(filesvc.Deps{Storage: dir, Owner: cfg.Owner}),
		MessageInterval: cfg.Upload.MessageInterval,
		GCTTL:           cfg.GC.TTL,
		Logger:          log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	switch cfg.Notifier.Driver {
	case config.DriverSocket:
		hub := notify.NewHub(0, log)
		deps.Hub = hub
		deps.Emitter = hub
		deps.Closers = append(deps.Closers, hub)
	case config.DriverRedis:
		rds, err := notify.DialRedis(ctx, cfg.Notifier.RedisAddr, cfg.Notifier.RedisChannel)
		if err != nil {
			return nil, nil, err
		}
		deps.Emitter = rds
		deps.Closers = append(deps.Closers, rds)
	default:
		deps.Emitter = notify.Nop{}
	}

	if cfg.Mirror.Enabled() {
		m, err := mirror.NewMinio(ctx, cfg.Mirror, log)
		if err != nil {
			closeAll(deps.Closers)
			return nil, nil, fmt.Errorf("mirror: %w", err)
		}
		deps.Mirror = m
	}

	h, srv := New(deps)
	return h, srv, nil
}

// New собирает роутер из готовых зависимостей.
func New(deps Deps) (http.Handler, *Server) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Emitter == nil {
		deps.Emitter = notify.Nop{}
	}
	srv := &Server{Deps: deps}

	return srv.routes(), srv
}

// routes: всё, что не /socket, /health и /admin/gc, уходит в dispatch независимо от метода.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(allowOrigin)

	if s.Hub != nil {
		r.Get("/socket", s.Hub.ServeHTTP)
	}
	r.Get("/health", s.health)
	r.Post("/admin/gc", s.gcOnce)

	r.HandleFunc("/*", s.dispatch)
	r.MethodNotAllowed(s.dispatch)

	return r
}

// Close отключает сокеты и закрывает внешние клиенты.
func (s *Server) Close() error {
	return closeAll(s.Closers)
}

func closeAll(cs []io.Closer) error {
	var errs []error
	for _, c := range cs {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func allowOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}
