// Package mail renders HTML templates and sends them over SMTP.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"

	"onghub/internal/config"
	"onghub/internal/domain/organization"
	"onghub/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var _ organization.Mailer = (*Mailer)(nil)

// Sender delivers a composed message. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends one of the embedded templates.
type Mailer struct {
	sender    Sender
	from      string
	fromName  string
	templates map[string]*template.Template
}

// New parses the embedded templates and builds an SMTP dialer from cfg.
func New(cfg config.MailConfig) (*Mailer, error) {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return NewWithSender(d, cfg.From, cfg.FromName)
}

// NewWithSender builds a Mailer over an arbitrary Sender.
func NewWithSender(sender Sender, from, fromName string) (*Mailer, error) {
	tpls, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Mailer{sender: sender, from: from, fromName: fromName, templates: tpls}, nil
}

func parseTemplates() (map[string]*template.Template, error) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read mail templates: %w", err)
	}
	out := make(map[string]*template.Template, len(entries))
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".html")
		t, err := template.ParseFS(templateFS, "templates/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("parse mail template %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// Render returns subject and HTML body of a template.
func (m *Mailer) Render(name string, data map[string]any) (string, string, error) {
	t, ok := m.templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template %q", name)
	}
	var subject, body bytes.Buffer
	if err := t.ExecuteTemplate(&subject, "subject", data); err != nil {
		return "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := t.ExecuteTemplate(&body, "body", data); err != nil {
		return "", "", fmt.Errorf("render %s body: %w", name, err)
	}
	return strings.TrimSpace(subject.String()), body.String(), nil
}

// SendTemplate renders name and sends it to every recipient in one message
// with the recipients in Bcc.
func (m *Mailer) SendTemplate(ctx context.Context, to []string, name string, data map[string]any) error {
	if len(to) == 0 {
		return nil
	}
	subject, body, err := m.Render(name, data)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("Bcc", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send %s mail: %w", name, err)
	}
	logger.Debug(ctx, "mail sent", "template", name, "recipients", len(to))
	return nil
}
