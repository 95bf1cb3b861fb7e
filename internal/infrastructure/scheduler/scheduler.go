// Package scheduler tareas periódicas con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job tarea programable. Run devuelve cuántos registros afectó.
type Job interface {
	Name() string
	Run(ctx context.Context) (int64, error)
}

// Observer recibe el resultado de cada ejecución (métricas).
type Observer func(job string, err error)

// Scheduler ejecuta Jobs según expresiones cron; nunca solapa ejecuciones del mismo job.
type Scheduler struct {
	cron     *cron.Cron
	log      zerolog.Logger
	observer Observer
	timeout  time.Duration
}

// New construye el scheduler. observer puede ser nil.
func New(log zerolog.Logger, observer Observer) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.Recover(cronLogger{log}))),
		log:      log,
		observer: observer,
		timeout:  time.Minute,
	}
}

// Add registra job con la expresión spec ("@hourly", "*/5 * * * *", ...).
func (s *Scheduler) Add(spec string, job Job) error {
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cronLogger{s.log})).Then(cron.FuncJob(func() {
		s.runOnce(job)
	}))
	if _, err := s.cron.AddJob(spec, wrapped); err != nil {
		return fmt.Errorf("programar %s (%q): %w", job.Name(), spec, err)
	}
	s.log.Info().Str("job", job.Name()).Str("spec", spec).Msg("tarea programada")
	return nil
}

func (s *Scheduler) runOnce(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	n, err := job.Run(ctx)
	if s.observer != nil {
		s.observer(job.Name(), err)
	}
	if err != nil {
		s.log.Error().Err(err).Str("job", job.Name()).Msg("tarea fallida")
		return
	}
	s.log.Debug().Str("job", job.Name()).Int64("affected", n).Msg("tarea completada")
}

// Start arranca el planificador en segundo plano.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el planificador y espera a las tareas en curso o a ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("tareas programadas interrumpidas por timeout")
	}
}

// cronLogger adapta zerolog a cron.Logger.
type cronLogger struct{ log zerolog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
