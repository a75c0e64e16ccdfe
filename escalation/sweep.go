package escalation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"courtflow/judge"
	"courtflow/notify"
	"courtflow/order"
)

// Defaults for the pending-age thresholds, in whole days.
const (
	DefaultReminderDays = 5
	DefaultReassignDays = 10
)

// OrderStore is the slice of order persistence the sweep needs.
type OrderStore interface {
	List(ctx context.Context, filter order.Filter) ([]order.Order, error)
	Update(ctx context.Context, o order.Order) (order.Order, error)
}

// AuthorityResolver maps an assignee to their regional administrative
// authority. ErrNoAuthority means no superior exists for the judge.
type AuthorityResolver interface {
	Superior(ctx context.Context, judgeID string) (judge.Profile, error)
}

// Notifier delivers best-effort reminders and reassignment notices.
type Notifier interface {
	Notify(ctx context.Context, recipientID, template string, data map[string]any)
	NotifyAddress(recipientID, address, template string, data map[string]any)
}

// Sweep reminds or reassigns orders that have sat too long in a pending
// review state. Reassignment takes strict priority over reminding: an order
// old enough to reassign is never also reminded.
type Sweep struct {
	orders       OrderStore
	authorities  AuthorityResolver
	notifier     Notifier
	reminderDays int
	reassignDays int
	opsContact   string
	now          func() time.Time
}

func NewSweep(orders OrderStore, authorities AuthorityResolver, notifier Notifier, reminderDays, reassignDays int, opsContact string) (*Sweep, error) {
	if reminderDays <= 0 {
		reminderDays = DefaultReminderDays
	}
	if reassignDays <= 0 {
		reassignDays = DefaultReassignDays
	}
	if reassignDays <= reminderDays {
		return nil, fmt.Errorf("escalation: reassign threshold %d must exceed reminder threshold %d", reassignDays, reminderDays)
	}
	return &Sweep{
		orders:       orders,
		authorities:  authorities,
		notifier:     notifier,
		reminderDays: reminderDays,
		reassignDays: reassignDays,
		opsContact:   opsContact,
		now:          time.Now,
	}, nil
}

func (s *Sweep) WithClock(now func() time.Time) *Sweep {
	s.now = now
	return s
}

// Run scans pending orders and escalates each independently: a failure on
// one order is logged and does not prevent processing the rest.
func (s *Sweep) Run(ctx context.Context) error {
	pending, err := s.orders.List(ctx, order.Filter{
		ReviewStatuses: []order.ReviewStatus{order.ReviewPending},
	})
	if err != nil {
		return fmt.Errorf("escalation: list pending orders: %w", err)
	}

	now := s.now()
	for _, o := range pending {
		daysPending := int(now.Sub(o.CreatedAt).Hours() / 24)

		switch {
		case daysPending >= s.reassignDays:
			if err := s.reassign(ctx, o, daysPending); err != nil {
				log.Printf("escalation: reassign %s: %v", o.ID, err)
			}
		case daysPending >= s.reminderDays:
			s.notifier.Notify(ctx, o.JudgeID, notify.TemplateOrderReminder, map[string]any{
				"order_id":      o.ID,
				"court_file_id": o.CourtFileID,
				"days_pending":  daysPending,
			})
		}
	}
	return nil
}

func (s *Sweep) reassign(ctx context.Context, o order.Order, daysPending int) error {
	superior, err := s.authorities.Superior(ctx, o.JudgeID)
	if err != nil {
		if errors.Is(err, judge.ErrNoAuthority) {
			log.Printf("escalation: no authority above judge %s, leaving order %s untouched", o.JudgeID, o.ID)
			return nil
		}
		return err
	}

	previousJudge := o.JudgeName
	o.JudgeID = superior.ID
	o.JudgeName = superior.FullName

	updated, err := s.orders.Update(ctx, o)
	if err != nil {
		return err
	}

	data := map[string]any{
		"order_id":       updated.ID,
		"court_file_id":  updated.CourtFileID,
		"days_pending":   daysPending,
		"previous_judge": previousJudge,
		"new_judge":      superior.FullName,
	}
	s.notifier.Notify(ctx, superior.ID, notify.TemplateOrderReassigned, data)
	if s.opsContact != "" {
		s.notifier.NotifyAddress("operations", s.opsContact, notify.TemplateOpsReassigned, data)
	}

	log.Printf("escalation: order %s reassigned from %s to %s after %d days", updated.ID, previousJudge, superior.FullName, daysPending)
	return nil
}
