package notify

import (
	"fmt"
	"strings"
	"text/template"
)

// Delivery hands a rendered message to the transport (SMTP, gateway, ...).
type Delivery interface {
	Deliver(recipient, subject, body string) error
}

// Template names understood by the mailer.
const (
	TemplateOrderAssigned   = "order-assigned"
	TemplateOrderReminder   = "order-reminder"
	TemplateOrderReassigned = "order-reassigned"
	TemplateOpsReassigned   = "ops-reassigned"
	TemplateFailureAlert    = "job-failure-alert"
)

var templateSubjects = map[string]string{
	TemplateOrderAssigned:   "New order assigned",
	TemplateOrderReminder:   "Order awaiting review",
	TemplateOrderReassigned: "Order reassigned to you",
	TemplateOpsReassigned:   "Order escalated to regional authority",
	TemplateFailureAlert:    "Scheduled job failure",
}

var templateBodies = map[string]string{
	TemplateOrderAssigned: `A new order on court file {{.court_file_id}} has been assigned to {{.judge_name}}.
Order: {{.order_id}}`,
	TemplateOrderReminder: `Order {{.order_id}} on court file {{.court_file_id}} has been pending review for {{.days_pending}} days.`,
	TemplateOrderReassigned: `Order {{.order_id}} on court file {{.court_file_id}} was reassigned to you after {{.days_pending}} days without review.
Previous assignee: {{.previous_judge}}`,
	TemplateOpsReassigned: `Order {{.order_id}} was escalated from {{.previous_judge}} to {{.new_judge}} after {{.days_pending}} days.`,
	TemplateFailureAlert: `Job {{.job_name}} ({{.job_id}}) failed at {{.occurred_at}}.
Arguments: {{.args}}
Reason: {{.reason}}`,
}

// TemplateMailer renders named text templates and hands the result to the
// delivery transport.
type TemplateMailer struct {
	templates *template.Template
	delivery  Delivery
}

func NewTemplateMailer(delivery Delivery) (*TemplateMailer, error) {
	root := template.New("notify")
	for name, body := range templateBodies {
		if _, err := root.New(name).Parse(body); err != nil {
			return nil, fmt.Errorf("notify: parse template %s: %w", name, err)
		}
	}
	return &TemplateMailer{templates: root, delivery: delivery}, nil
}

// Send renders templateName with data and delivers it to recipient.
func (m *TemplateMailer) Send(templateName, recipient string, data map[string]any) error {
	if m.templates.Lookup(templateName) == nil {
		return fmt.Errorf("notify: unknown template %s", templateName)
	}

	var body strings.Builder
	if err := m.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("notify: render %s: %w", templateName, err)
	}

	subject := templateSubjects[templateName]
	if err := m.delivery.Deliver(recipient, subject, body.String()); err != nil {
		return fmt.Errorf("notify: deliver %s: %w", templateName, err)
	}
	return nil
}
