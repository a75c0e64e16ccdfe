package jobs

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"courtflow/notify"

	"github.com/google/uuid"
)

// FailureAlert captures one job failure for alert fan-out. It is ephemeral:
// built when a unit of work fails, never persisted.
type FailureAlert struct {
	JobName    string
	JobID      string
	Args       string
	Reason     string
	OccurredAt time.Time
	Recipients []string
}

// AlertSender delivers one rendered alert to one recipient address.
type AlertSender interface {
	Send(templateName, recipient string, data map[string]any) error
}

// Interceptor wraps every scheduled unit of work with start/end logging and
// failure-alert fan-out. Alerting is best-effort: a delivery failure to one
// recipient does not stop the others, and the wrapped unit's failure always
// propagates to the scheduling runtime.
type Interceptor struct {
	sender     AlertSender
	recipients []string
	now        func() time.Time
	newID      func() string
}

func NewInterceptor(sender AlertSender, recipients []string) *Interceptor {
	return &Interceptor{
		sender:     sender,
		recipients: recipients,
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
	}
}

func (i *Interceptor) WithClock(now func() time.Time) *Interceptor {
	i.now = now
	return i
}

// Wrap decorates the descriptor's unit of work. Any job type can opt in
// without a class hierarchy.
func (i *Interceptor) Wrap(d Descriptor) Descriptor {
	next := d.Run
	d.Run = func(ctx context.Context) error {
		jobID := i.newID()
		log.Printf("jobs: %s (%s) starting", d.Name, jobID)

		err := next(ctx)
		if err == nil {
			log.Printf("jobs: %s (%s) completed", d.Name, jobID)
			return nil
		}

		log.Printf("jobs: %s (%s) failed: %v", d.Name, jobID, err)
		i.alert(FailureAlert{
			JobName:    d.Name,
			JobID:      jobID,
			Args:       fmt.Sprintf("%v", d.Args),
			Reason:     err.Error(),
			OccurredAt: i.now().UTC(),
			Recipients: i.recipients,
		})
		return err
	}
	return d
}

func (i *Interceptor) alert(a FailureAlert) {
	recipients := make([]string, 0, len(a.Recipients))
	for _, r := range a.Recipients {
		if trimmed := strings.TrimSpace(r); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	if len(recipients) == 0 {
		return
	}

	data := map[string]any{
		"job_name":    a.JobName,
		"job_id":      a.JobID,
		"args":        a.Args,
		"reason":      a.Reason,
		"occurred_at": a.OccurredAt.Format(time.RFC3339),
	}

	for _, recipient := range recipients {
		if err := i.sender.Send(notify.TemplateFailureAlert, recipient, data); err != nil {
			log.Printf("jobs: alert %s for %s (%s): %v", recipient, a.JobName, a.JobID, err)
		}
	}
}
