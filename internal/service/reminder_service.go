package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/academia-sys/academia-api/internal/models"
	"github.com/academia-sys/academia-api/pkg/config"
	"github.com/academia-sys/academia-api/pkg/jobs"
	"github.com/academia-sys/academia-api/pkg/notify"
)

type overdueReader interface {
	Overdue(ctx context.Context) ([]models.OverdueInstallment, error)
}

// ReminderService periodically scans for overdue installments and fans the
// notifications out through a worker queue so a slow or flaky delivery
// channel never blocks the scan.
type ReminderService struct {
	repo    overdueReader
	sender  notify.Sender
	cfg     config.RemindersConfig
	metrics *MetricsService
	logger  *zap.Logger

	cron  *cron.Cron
	queue *jobs.Queue
}

// NewReminderService constructs the service. Start must be called before
// reminders flow.
func NewReminderService(repo overdueReader, sender notify.Sender, cfg config.RemindersConfig, metrics *MetricsService, logger *zap.Logger) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReminderService{repo: repo, sender: sender, cfg: cfg, metrics: metrics, logger: logger}
	s.queue = jobs.NewQueue("payment-reminders", s.deliver, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Start registers the cron schedule and spins up the delivery workers.
func (s *ReminderService) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info("payment reminders disabled")
		return nil
	}
	s.queue.Start(ctx)
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if err := s.Scan(ctx); err != nil {
			s.logger.Error("reminder scan failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.cfg.Schedule, err)
	}
	s.cron.Start()
	s.logger.Info("payment reminders scheduled", zap.String("schedule", s.cfg.Schedule))
	return nil
}

// Stop halts the schedule and drains the workers.
func (s *ReminderService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.queue.Stop()
}

// Scan enqueues one reminder per overdue installment. It is exposed so
// operators can trigger a run outside the schedule.
func (s *ReminderService) Scan(ctx context.Context) error {
	overdue, err := s.repo.Overdue(ctx)
	if err != nil {
		return fmt.Errorf("scan overdue installments: %w", err)
	}
	for _, installment := range overdue {
		job := jobs.Job{Type: "payment-reminder", Payload: installment}
		if err := s.queue.Enqueue(job); err != nil {
			return fmt.Errorf("enqueue reminder: %w", err)
		}
	}
	s.logger.Info("reminder scan complete", zap.Int("overdue", len(overdue)))
	return nil
}

func (s *ReminderService) deliver(ctx context.Context, job jobs.Job) error {
	installment, ok := job.Payload.(models.OverdueInstallment)
	if !ok {
		s.logger.Error("discarding reminder with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	msg := notify.Message{
		Recipient: installment.ParentPhone,
		Subject:   "Cuota vencida",
		Body: fmt.Sprintf("La cuota %d de %s %s por %.2f venció el %s.",
			installment.Number,
			installment.FirstName,
			installment.LastName,
			installment.Amount,
			installment.DueDate.Format("2006-01-02"),
		),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reminder for installment %d: %w", installment.ID, err)
	}
	s.metrics.CountReminder()
	return nil
}
