package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"cine-lens/config"
	"cine-lens/logging"
	"cine-lens/report"

	gomail "gopkg.in/mail.v2"
)

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// DigestNotifier mails the catalog dashboard digest
type DigestNotifier struct {
	senderEmail    string
	recipientEmail string
	sender         Sender
	htmlTemplate   *template.Template
}

var funcs = template.FuncMap{
	"pct": func(f float64) string { return fmt.Sprintf("%.2f%%", f) },
	"year": func(y int) string {
		if y == 0 {
			return "-"
		}
		return fmt.Sprint(y)
	},
}

const digestTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Cine Lens - Catalog Digest</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; }
        h1 { color: #e50914; }
        h2 { color: #0071c5; margin-top: 30px; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
        th { background-color: #f4f4f4; text-align: left; padding: 10px; }
        td { padding: 10px; border-bottom: 1px solid #ddd; }
        .count { font-weight: bold; color: #e50914; }
        .footer { font-size: 12px; color: #666; margin-top: 50px; text-align: center; }
    </style>
</head>
<body>
    <h1>Cine Lens - Catalog Digest</h1>
    <p>Generated on {{.Date}} for {{.D.Filter.Selector}}, {{.D.Filter.From}}-{{.D.Filter.To}}.</p>

    <p>Total titles: <span class="count">{{.D.Summary.Total}}</span></p>
    <table>
        <tr><th>Movies</th><td>{{.D.Summary.Movies}} ({{pct .D.MoviePct}})</td></tr>
        <tr><th>TV Shows</th><td>{{.D.Summary.Shows}} ({{pct .D.TVPct}})</td></tr>
        <tr><th>First Year Added</th><td>{{year .D.Years.MinYear}}</td></tr>
        <tr><th>Last Year Added</th><td>{{year .D.Years.MaxYear}}</td></tr>
        <tr><th>Average Year Added</th><td>{{year .D.Years.AvgYear}}</td></tr>
    </table>

    {{if .D.TopGenres}}
    <h2>Top Genres</h2>
    <table>
        <tr><th>Genre</th><th>Titles</th></tr>
        {{range .D.TopGenres}}<tr><td>{{.Token}}</td><td>{{.Count}}</td></tr>
        {{end}}
    </table>
    {{end}}

    {{if .D.TopCountries}}
    <h2>Top Countries</h2>
    <table>
        <tr><th>Country</th><th>Titles</th></tr>
        {{range .D.TopCountries}}<tr><td>{{.Token}}</td><td>{{.Count}}</td></tr>
        {{end}}
    </table>
    {{end}}

    <div class="footer">
        <p>This is an automated email from Cine Lens. Please do not reply.</p>
    </div>
</body>
</html>
`

// NewDigestNotifier creates a notifier that sends through cfg's SMTP server.
func NewDigestNotifier(cfg config.EmailConfig) (*DigestNotifier, error) {
	// Mailtrap style auth: username "api", password is the API token
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, "api", cfg.SenderPassword)
	return NewDigestNotifierWithSender(cfg, d)
}

// NewDigestNotifierWithSender is NewDigestNotifier with an explicit Sender.
func NewDigestNotifierWithSender(cfg config.EmailConfig, sender Sender) (*DigestNotifier, error) {
	tmpl, err := template.New("digest").Funcs(funcs).Parse(digestTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}

	logging.Info().
		Str("host", cfg.SMTPHost).
		Int("port", cfg.SMTPPort).
		Str("sender", cfg.SenderEmail).
		Str("token", maskSecret(cfg.SenderPassword)).
		Str("recipient", cfg.RecipientEmail).
		Msg("Email configuration")

	return &DigestNotifier{
		senderEmail:    cfg.SenderEmail,
		recipientEmail: cfg.RecipientEmail,
		sender:         sender,
		htmlTemplate:   tmpl,
	}, nil
}

// NotifyDigest mails d to the configured recipient.
func (n *DigestNotifier) NotifyDigest(d report.Dashboard) error {
	if n.recipientEmail == "" {
		logging.Warn().Msg("No recipient email configured, skipping notification")
		return nil
	}

	m, err := n.compose(d)
	if err != nil {
		return err
	}

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logging.Info().
		Str("recipient", n.recipientEmail).
		Int("titles", d.Summary.Total).
		Msg("Digest email sent")
	return nil
}

func (n *DigestNotifier) compose(d report.Dashboard) (*gomail.Message, error) {
	date := d.GeneratedAt
	if date.IsZero() {
		date = time.Now()
	}

	data := struct {
		Date string
		D    report.Dashboard
	}{
		Date: date.Format("January 2, 2006 at 3:04 PM"),
		D:    d,
	}

	var html bytes.Buffer
	if err := n.htmlTemplate.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.senderEmail)
	m.SetHeader("To", n.recipientEmail)
	m.SetHeader("Subject", fmt.Sprintf("Cine Lens: %d Titles (%d Movies, %d TV Shows)",
		d.Summary.Total, d.Summary.Movies, d.Summary.Shows))

	m.SetBody("text/plain", plainText(data.Date, d))
	m.AddAlternative("text/html", html.String())
	return m, nil
}

func plainText(date string, d report.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cine Lens Catalog Digest\n\n")
	fmt.Fprintf(&b, "Generated on %s for %s, %d-%d.\n", date, d.Filter.Selector, d.Filter.From, d.Filter.To)
	fmt.Fprintf(&b, "Total titles: %d (%d movies, %d TV shows)\n\n", d.Summary.Total, d.Summary.Movies, d.Summary.Shows)

	if len(d.TopGenres) > 0 {
		b.WriteString("Top genres:\n")
		for _, g := range d.TopGenres {
			fmt.Fprintf(&b, "  %s: %d\n", g.Token, g.Count)
		}
		b.WriteString("\n")
	}

	b.WriteString("This is an automated email from Cine Lens. Please do not reply.")
	return b.String()
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) > 8:
		return s[:4] + "..." + s[len(s)-4:]
	default:
		return "***"
	}
}
