// services/scheduler.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"brandflow-backend/models"
	"brandflow-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const (
	wakeSpec   = "@every 15m"
	retryDelay = time.Minute
)

// DedupStore is the slice of the dispatch log the scheduler depends on.
// *DispatchLogStore satisfies it.
type DedupStore interface {
	HasSentToday(userID, postID uuid.UUID, kind string, now time.Time) (bool, error)
	Record(entry *models.NotificationLog) error
}

// Scheduler is the due date reminder loop: it wakes every 15 minutes, scans
// eligible recipients and their candidate items, and dispatches at most one
// reminder per recipient per item per calendar day.
type Scheduler struct {
	prefs   PreferenceStore
	items   CandidateSource
	logs    DedupStore
	gateway MessageGateway

	graceHours float64
	now        func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	running bool

	// wg tracks every evaluation pass, including the startup pass and retry
	// passes that run outside cron's own job accounting.
	wg sync.WaitGroup
}

func NewScheduler(prefs PreferenceStore, items CandidateSource, logs DedupStore, gateway MessageGateway) *Scheduler {
	return &Scheduler{
		prefs:      prefs,
		items:      items,
		logs:       logs,
		gateway:    gateway,
		graceHours: utils.DefaultGraceHours,
		now:        time.Now,
	}
}

// Start launches the background loop: one pass immediately, then one every
// wake interval until Stop is called. Calling Start on a running scheduler is
// a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		log.Println("[SCHEDULER] already running")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.cron = cron.New()
	s.cron.AddFunc(wakeSpec, func() {
		s.wg.Add(1)
		defer s.wg.Done()
		s.safeRun(ctx)
	})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.safeRun(ctx)
	}()
	s.cron.Start()
	s.running = true
	log.Println("[SCHEDULER] due date reminder scheduler started")
}

// Stop cancels future wakes and waits for an in-flight pass to finish; it
// never aborts a delivery mid-call.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.running = false
	log.Println("[SCHEDULER] due date reminder scheduler stopped")
}

// safeRun is the wake cycle entry point. No error kind may terminate the
// loop: a failed or panicked pass is logged and retried once after a short
// delay, with the regular cadence untouched.
func (s *Scheduler) safeRun(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[SCHEDULER] wake cycle panicked: %v", r)
			s.scheduleRetry(ctx)
		}
	}()

	if _, err := s.RunOnce(ctx, false); err != nil {
		log.Printf("[SCHEDULER] wake cycle failed: %v", err)
		s.scheduleRetry(ctx)
	}
}

// scheduleRetry queues one extra pass after a short delay. The goroutine is
// registered with the wait group before it starts so Stop cannot miss it, and
// it gives up immediately if the scheduler shuts down during the delay.
func (s *Scheduler) scheduleRetry(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}

		defer func() {
			if r := recover(); r != nil {
				log.Printf("[SCHEDULER] retry pass panicked: %v", r)
			}
		}()
		if _, err := s.RunOnce(ctx, false); err != nil {
			log.Printf("[SCHEDULER] retry pass failed: %v", err)
		}
	}()
}

// RunOnce executes a single evaluation pass over every eligible recipient and
// returns the number of reminders accepted by the gateway. bypassWindow skips
// the preferred time-of-day check (used by the admin forced run); the daily
// dedup check always applies.
func (s *Scheduler) RunOnce(ctx context.Context, bypassWindow bool) (int, error) {
	now := s.now()

	recipients, err := s.prefs.EligibleRecipients()
	if err != nil {
		return 0, fmt.Errorf("load recipients: %w", err)
	}

	sent := 0
	for _, recipient := range recipients {
		if ctx.Err() != nil {
			break
		}
		sent += s.processRecipient(recipient, now, bypassWindow)
	}

	log.Printf("[SCHEDULER] pass complete: %d reminder(s) dispatched", sent)
	return sent, nil
}

// processRecipient isolates one recipient: a panic or error here must not
// stop the pass for everyone else.
func (s *Scheduler) processRecipient(recipient Recipient, now time.Time, bypassWindow bool) (sent int) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[SCHEDULER] recipient %s panicked: %v", recipient.User.ID, r)
		}
	}()

	items, err := s.items.CandidateItems(recipient.User)
	if err != nil {
		log.Printf("[SCHEDULER] failed to load items for %s: %v", recipient.User.ID, err)
		return 0
	}

	for _, item := range items {
		due, err := utils.ParseDueDate(item.Post.DueDate, utils.DefaultDueClock)
		if err != nil {
			log.Printf("[SCHEDULER] skipping post %s: %v", item.Post.ID, err)
			continue
		}

		notify, daysLeft := utils.ShouldNotify(due, recipient.Setting.LeadDays, now, s.graceHours)
		if !notify {
			continue
		}

		if !bypassWindow && !utils.WithinPreferredWindow(recipient.Setting.NotifyAt, now) {
			continue
		}

		already, err := s.logs.HasSentToday(recipient.User.ID, item.Post.ID, models.KindDueDateReminder, now)
		if err != nil {
			log.Printf("[SCHEDULER] dedup check failed for post %s: %v", item.Post.ID, err)
			continue
		}
		if already {
			continue
		}

		if s.dispatch(recipient, item, due, daysLeft, now) {
			sent++
		}
	}
	return sent
}

// dispatch delivers one reminder and records the outcome: deliver first, log
// second, so no database transaction spans the gateway call.
func (s *Scheduler) dispatch(recipient Recipient, item CandidateItem, due time.Time, daysLeft float64, now time.Time) bool {
	body := RenderDueDateReminder(recipient.User.Name, item, due, daysLeft, now)
	providerID, sendErr := s.gateway.Send(recipient.Setting.Address, body)

	postID := item.Post.ID
	campaignID := item.Campaign.ID
	entry := &models.NotificationLog{
		UserID:     recipient.User.ID,
		PostID:     &postID,
		CampaignID: &campaignID,
		Kind:       models.KindDueDateReminder,
		Message:    body,
		Address:    recipient.Setting.Address,
		Channel:    ChannelFor(recipient.Setting.Address),
	}

	if sendErr != nil {
		entry.ErrorMessage = sendErr.Error()
		log.Printf("[SCHEDULER] send to %s failed: %v", recipient.Setting.Address, sendErr)
	} else {
		sentAt := now
		day := now.Format("2006-01-02")
		entry.Sent = true
		entry.SentAt = &sentAt
		entry.SentDate = &day
		entry.ProviderID = providerID
	}

	if err := s.logs.Record(entry); err != nil {
		if errors.Is(err, ErrDuplicateSend) {
			log.Printf("[SCHEDULER] duplicate send suppressed for post %s", item.Post.ID)
			return false
		}
		log.Printf("[SCHEDULER] failed to log dispatch for post %s: %v", item.Post.ID, err)
	}

	if sendErr != nil {
		return false
	}

	if err := s.prefs.MarkNotified(recipient.Setting.ID, now); err != nil {
		log.Printf("[SCHEDULER] failed to update last notification time for %s: %v", recipient.User.ID, err)
	}
	return true
}

// ItemsInWindow counts candidate items currently inside their recipient's
// notification window, ignoring the time-of-day and dedup checks. Used by the
// admin statistics endpoint.
func (s *Scheduler) ItemsInWindow() (int, error) {
	now := s.now()

	recipients, err := s.prefs.EligibleRecipients()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, recipient := range recipients {
		items, err := s.items.CandidateItems(recipient.User)
		if err != nil {
			log.Printf("[SCHEDULER] failed to load items for %s: %v", recipient.User.ID, err)
			continue
		}
		for _, item := range items {
			due, err := utils.ParseDueDate(item.Post.DueDate, utils.DefaultDueClock)
			if err != nil {
				continue
			}
			if ok, _ := utils.ShouldNotify(due, recipient.Setting.LeadDays, now, s.graceHours); ok {
				total++
			}
		}
	}
	return total, nil
}
