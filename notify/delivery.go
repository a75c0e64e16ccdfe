package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// SMTPDelivery hands rendered messages to a plain SMTP relay.
type SMTPDelivery struct {
	addr string
	from string
}

func NewSMTPDelivery(addr, from string) *SMTPDelivery {
	return &SMTPDelivery{addr: addr, from: from}
}

func (d *SMTPDelivery) Deliver(recipient, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", d.from)
	fmt.Fprintf(&msg, "To: %s\r\n", recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n\r\n", subject)
	msg.WriteString(body)

	if err := smtp.SendMail(d.addr, nil, d.from, []string{recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("notify: smtp send to %s: %w", recipient, err)
	}
	return nil
}

// LogDelivery is the transport used when no relay is configured; it keeps
// notification content visible in development and tests.
type LogDelivery struct{}

func (LogDelivery) Deliver(recipient, subject, body string) error {
	log.Printf("notify: [%s] to %s: %s", subject, recipient, strings.ReplaceAll(body, "\n", " "))
	return nil
}
