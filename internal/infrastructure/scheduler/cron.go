// Package scheduler tareas periódicas: barrido de reservas vencidas y refresco del billboard.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Estore-api/pkg/logger"
)

// Nombres de las tareas (etiqueta job de las métricas).
const (
	JobReservationSweep = "reservation_sweep"
	JobBillboardRefresh = "billboard_refresh"
)

// Checkout operaciones del checkout que se ejecutan en segundo plano.
type Checkout interface {
	SweepExpired(ctx context.Context) (int, error)
	PublishTop(ctx context.Context) error
}

// Recorder registra la ejecución de las tareas.
type Recorder interface {
	ReservationsSwept(n int)
	JobRun(job string, success bool)
}

// Config expresiones cron de cada tarea (formato estándar o descriptores @every).
type Config struct {
	ReservationSweep string
	BillboardRefresh string
	Timeout          time.Duration // tiempo máximo de cada ejecución
}

// Scheduler envuelve cron.Cron con las tareas de la tienda.
type Scheduler struct {
	cron     *cron.Cron
	checkout Checkout
	rec      Recorder
	timeout  time.Duration
	log      *logger.Logger
}

// New registra las tareas. Una expresión vacía desactiva la tarea correspondiente.
func New(cfg Config, checkout Checkout, rec Recorder, log *logger.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	s := &Scheduler{
		cron:     cron.New(cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log}))),
		checkout: checkout,
		rec:      rec,
		timeout:  cfg.Timeout,
		log:      log.Named("scheduler"),
	}
	if cfg.ReservationSweep != "" {
		if _, err := s.cron.AddFunc(cfg.ReservationSweep, s.SweepReservations); err != nil {
			return nil, fmt.Errorf("scheduler: %s %q: %w", JobReservationSweep, cfg.ReservationSweep, err)
		}
	}
	if cfg.BillboardRefresh != "" {
		if _, err := s.cron.AddFunc(cfg.BillboardRefresh, s.RefreshBillboard); err != nil {
			return nil, fmt.Errorf("scheduler: %s %q: %w", JobBillboardRefresh, cfg.BillboardRefresh, err)
		}
	}
	return s, nil
}

// Start arranca el planificador en su propia goroutine.
func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("planificador iniciado")
	s.cron.Start()
}

// Stop detiene el planificador y espera a las tareas en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info().Msg("planificador detenido")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SweepReservations libera las reservas vencidas.
func (s *Scheduler) SweepReservations() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.checkout.SweepExpired(ctx)
	s.record(JobReservationSweep, err)
	if err != nil {
		s.log.Error().Err(err).Str("job", JobReservationSweep).Msg("tarea fallida")
		return
	}
	if s.rec != nil {
		s.rec.ReservationsSwept(n)
	}
	if n > 0 {
		s.log.Info().Int("released", n).Msg("reservas vencidas liberadas")
	}
}

// RefreshBillboard vuelve a publicar el ranking de más vendidos.
func (s *Scheduler) RefreshBillboard() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.checkout.PublishTop(ctx)
	s.record(JobBillboardRefresh, err)
	if err != nil {
		s.log.Error().Err(err).Str("job", JobBillboardRefresh).Msg("tarea fallida")
	}
}

func (s *Scheduler) record(job string, err error) {
	if s.rec != nil {
		s.rec.JobRun(job, err == nil)
	}
}

// cronLogger adapta logger.Logger a cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
