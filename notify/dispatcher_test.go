package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"courtflow/judge"
)

func TestDispatcher_DeliversToActiveRecipient(t *testing.T) {
	contacts := &fakeContacts{profiles: map[string]judge.Profile{
		"J-1": {ID: "J-1", Email: "ahlgren@court.example", Active: true},
	}}
	sender := &fakeSender{}
	d := NewDispatcher(contacts, sender)

	d.Notify(context.Background(), "J-1", TemplateOrderReminder, map[string]any{"order_id": "o-1"})

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(sender.sent))
	}
	if sender.sent[0].recipient != "ahlgren@court.example" {
		t.Fatalf("expected directory address, got %q", sender.sent[0].recipient)
	}
}

func TestDispatcher_SkipsUnresolvedRecipients(t *testing.T) {
	cases := []struct {
		name     string
		profiles map[string]judge.Profile
	}{
		{"unknown recipient", nil},
		{"inactive recipient", map[string]judge.Profile{
			"J-1": {ID: "J-1", Email: "ahlgren@court.example", Active: false},
		}},
		{"missing address", map[string]judge.Profile{
			"J-1": {ID: "J-1", Active: true},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sender := &fakeSender{}
			d := NewDispatcher(&fakeContacts{profiles: tc.profiles}, sender)

			d.Notify(context.Background(), "J-1", TemplateOrderReminder, nil)

			if len(sender.sent) != 0 {
				t.Fatalf("expected no delivery, got %d", len(sender.sent))
			}
		})
	}
}

func TestDispatcher_SwallowsSenderFailure(t *testing.T) {
	contacts := &fakeContacts{profiles: map[string]judge.Profile{
		"J-1": {ID: "J-1", Email: "ahlgren@court.example", Active: true},
	}}
	sender := &fakeSender{err: errors.New("smtp refused")}
	d := NewDispatcher(contacts, sender)

	// Must not panic or surface the failure to the caller.
	d.Notify(context.Background(), "J-1", TemplateOrderAssigned, nil)
	d.NotifyAddress("operations", "ops@court.example", TemplateOpsReassigned, nil)
}

func TestTemplateMailer_RendersKnownTemplates(t *testing.T) {
	delivery := &fakeDelivery{}
	mailer, err := NewTemplateMailer(delivery)
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}

	err = mailer.Send(TemplateOrderReminder, "ahlgren@court.example", map[string]any{
		"order_id":      "o-1",
		"court_file_id": "F-1",
		"days_pending":  6,
	})
	if err != nil {
		t.Fatalf("send: unexpected error: %v", err)
	}

	if len(delivery.delivered) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(delivery.delivered))
	}
	got := delivery.delivered[0]
	if got.subject != "Order awaiting review" {
		t.Fatalf("unexpected subject %q", got.subject)
	}
	for _, want := range []string{"o-1", "F-1", "6 days"} {
		if !strings.Contains(got.body, want) {
			t.Fatalf("body missing %q: %q", want, got.body)
		}
	}
}

func TestTemplateMailer_RejectsUnknownTemplate(t *testing.T) {
	mailer, err := NewTemplateMailer(&fakeDelivery{})
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}

	if err := mailer.Send("no-such-template", "ahlgren@court.example", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

type fakeContacts struct {
	profiles map[string]judge.Profile
}

func (f *fakeContacts) GetByID(ctx context.Context, id string) (judge.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return judge.Profile{}, judge.ErrJudgeNotFound
	}
	return p, nil
}

type sentMessage struct {
	template  string
	recipient string
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) Send(templateName, recipient string, data map[string]any) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{template: templateName, recipient: recipient})
	return nil
}

type deliveredMessage struct {
	recipient string
	subject   string
	body      string
}

type fakeDelivery struct {
	delivered []deliveredMessage
}

func (f *fakeDelivery) Deliver(recipient, subject, body string) error {
	f.delivered = append(f.delivered, deliveredMessage{recipient: recipient, subject: subject, body: body})
	return nil
}
