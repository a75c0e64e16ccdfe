package notify

import (
	"context"
	"errors"
	"log"

	"courtflow/judge"
)

// ContactDirectory maps an assignee id to a contact address and active flag.
type ContactDirectory interface {
	GetByID(ctx context.Context, id string) (judge.Profile, error)
}

// Sender renders the named template and delivers the result to one address.
type Sender interface {
	Send(templateName, recipient string, data map[string]any) error
}

// Dispatcher performs best-effort notification delivery. It sits on paths
// that must never block or fail the primary workflow transaction, so every
// failure is logged and swallowed.
type Dispatcher struct {
	contacts ContactDirectory
	sender   Sender
}

func NewDispatcher(contacts ContactDirectory, sender Sender) *Dispatcher {
	return &Dispatcher{contacts: contacts, sender: sender}
}

// Notify resolves the recipient's contact address and dispatches the named
// template. An unresolved or inactive recipient is logged and skipped.
func (d *Dispatcher) Notify(ctx context.Context, recipientID, templateName string, data map[string]any) {
	profile, err := d.contacts.GetByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, judge.ErrJudgeNotFound) {
			log.Printf("notify: recipient %s not in directory, skipping %s", recipientID, templateName)
		} else {
			log.Printf("notify: resolve recipient %s: %v", recipientID, err)
		}
		return
	}
	if !profile.Active {
		log.Printf("notify: recipient %s inactive, skipping %s", recipientID, templateName)
		return
	}
	if profile.Email == "" {
		log.Printf("notify: recipient %s has no contact address, skipping %s", recipientID, templateName)
		return
	}

	d.NotifyAddress(recipientID, profile.Email, templateName, data)
}

// NotifyAddress dispatches the named template to a literal address, bypassing
// directory resolution. Used for fixed operational contacts.
func (d *Dispatcher) NotifyAddress(recipientID, address, templateName string, data map[string]any) {
	if err := d.sender.Send(templateName, address, data); err != nil {
		log.Printf("notify: deliver %s to %s: %v", templateName, recipientID, err)
		return
	}
	log.Printf("notify: delivered %s to %s", templateName, recipientID)
}
