package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/padelops/club-system/models"
)

// Notifier sends user-facing notifications. Implementations must be safe
// for concurrent use; services call them from goroutines.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, booking models.Booking) error
	SendTournamentCompleted(ctx context.Context, tournamentName string, standings map[string][]models.RankingEntry) error
}

// Template names looked up in the notifier's template set.
const (
	TemplateBookingConfirmation = "booking_confirmation"
	TemplateTournamentCompleted = "tournament_completed"
)

// DefaultTemplates returns the built-in message templates. The notifier
// takes the map at construction and never mutates it afterwards, so
// deployments can pass their own set without racing concurrent sends.
func DefaultTemplates() map[string]string {
	return map[string]string{
		TemplateBookingConfirmation: `<p>Your court {{.CourtName}} is booked from {{.StartsAt.Format "15:04"}} to {{.EndsAt.Format "15:04"}} on {{.StartsAt.Format "02 Jan 2006"}}.</p>`,
		TemplateTournamentCompleted: `<h2>{{.TournamentName}} has finished!</h2>
{{range $category, $entries := .Standings}}<h3>{{$category}}</h3><ol>{{range $entries}}<li>{{.TeamName}} ({{.Wins}}-{{.Losses}})</li>{{end}}</ol>{{end}}`,
	}
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
	// AdminEmail receives tournament completion notices.
	AdminEmail string
}

type emailNotifier struct {
	cfg       SMTPConfig
	templates *template.Template
}

// NewEmailNotifier builds an SMTP-backed Notifier from an immutable
// template set.
func NewEmailNotifier(cfg SMTPConfig, templateSources map[string]string) (Notifier, error) {
	root := template.New("notifications")
	for name, src := range templateSources {
		if _, err := root.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("failed to parse template %q: %w", name, err)
		}
	}
	return &emailNotifier{cfg: cfg, templates: root}, nil
}

func (n *emailNotifier) render(name string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := n.templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return body.String(), nil
}

func (n *emailNotifier) send(to, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)
	msg := []byte("To: " + to + "\r\n" +
		"From: " + n.cfg.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		htmlBody + "\r\n")

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

func (n *emailNotifier) SendBookingConfirmation(_ context.Context, booking models.Booking) error {
	courtName := fmt.Sprintf("court %d", booking.CourtID)
	if booking.Court != nil {
		courtName = booking.Court.Name
	}
	body, err := n.render(TemplateBookingConfirmation, struct {
		CourtName string
		StartsAt  interface{ Format(string) string }
		EndsAt    interface{ Format(string) string }
	}{courtName, booking.StartsAt, booking.EndsAt})
	if err != nil {
		return err
	}
	// Recipient resolution goes through the admin address until per-user
	// contact preferences exist.
	return n.send(n.cfg.AdminEmail, "Booking confirmed", body)
}

func (n *emailNotifier) SendTournamentCompleted(_ context.Context, tournamentName string, standings map[string][]models.RankingEntry) error {
	body, err := n.render(TemplateTournamentCompleted, struct {
		TournamentName string
		Standings      map[string][]models.RankingEntry
	}{tournamentName, standings})
	if err != nil {
		return err
	}
	return n.send(n.cfg.AdminEmail, fmt.Sprintf("Tournament %q finished", tournamentName), body)
}
