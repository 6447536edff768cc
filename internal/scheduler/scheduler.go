package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/warnabrotha/api/internal/service"
)

// Scheduler runs the background sweeps: the periodic checkout-reminder
// scan and the nightly auto-checkout. Cron entries run in the agency's
// local timezone so "22:00" means 22:00 on campus regardless of where
// the server runs.
type Scheduler struct {
	cron     *cron.Cron
	reminder *service.ReminderService
	loc      *time.Location
}

func New(reminder *service.ReminderService, loc *time.Location, scanInterval time.Duration, autoCheckoutHour int) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		reminder: reminder,
		loc:      loc,
	}

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", scanInterval), s.runReminderScan); err != nil {
		return nil, fmt.Errorf("schedule reminder scan: %w", err)
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("0 %d * * *", autoCheckoutHour), s.runAutoCheckout); err != nil {
		return nil, fmt.Errorf("schedule auto checkout: %w", err)
	}

	return s, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("⏰ Scheduler started (reminder scan + nightly auto-checkout)")
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("⏰ Scheduler stopped")
}

func (s *Scheduler) runReminderScan() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	sent, err := s.reminder.ScanDueReminders(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Reminder scan failed: %v", err)
		return
	}
	if sent > 0 {
		log.Printf("🔔 Reminder scan sent %d reminder(s)", sent)
	}
}

func (s *Scheduler) runAutoCheckout() {
	closed, err := s.reminder.AutoCheckoutExpired(time.Now())
	if err != nil {
		log.Printf("❌ Auto-checkout sweep failed: %v", err)
		return
	}
	if closed > 0 {
		log.Printf("🚗 Auto-checkout closed %d stale session(s)", closed)
	}
}
