package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/ExerciseTracker/internal/config"
	"github.com/GoArmGo/ExerciseTracker/internal/core/ports"
	"github.com/GoArmGo/ExerciseTracker/internal/session"
	"github.com/GoArmGo/ExerciseTracker/internal/usecase"
)

const (
	ModeServer = "server"
	ModeWorker = "worker"
)

// App собранное приложение: HTTP-сервер или воркер архивации журналов.
type App struct {
	Config   *config.Config
	logger   *slog.Logger
	tracker  usecase.ExerciseTracker
	session  *session.Session
	archiver *usecase.LogArchiver
	consumer ports.ExerciseEventConsumer
	closers  []func() error
}

// Deps зависимости, которые собирает di
type Deps struct {
	Tracker  usecase.ExerciseTracker
	Session  *session.Session
	Archiver *usecase.LogArchiver
	Consumer ports.ExerciseEventConsumer
	// Closers вызываются при завершении в обратном порядке
	Closers []func() error
}

func NewApp(cfg *config.Config, logger *slog.Logger, deps Deps) *App {
	return &App{
		Config:   cfg,
		logger:   logger,
		tracker:  deps.Tracker,
		session:  deps.Session,
		archiver: deps.Archiver,
		consumer: deps.Consumer,
		closers:  deps.Closers,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до SIGINT/SIGTERM
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode, "backend", a.Config.StoreBackend, "app_id", a.Config.AppID)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a.Config, a.tracker, a.session, a.logger)
	case ModeWorker:
		if a.archiver == nil || a.consumer == nil {
			err = errors.New("worker dependencies are not configured")
			break
		}
		err = runWorker(ctx, a.consumer, a.archiver, a.logger)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
