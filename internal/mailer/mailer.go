package mailer

import (
	"bytes"
	"fmt"
	"io"
	"net/smtp"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/marketbrief/marketbrief/config"
	"github.com/marketbrief/marketbrief/internal/logx"
)

const subjectDateLayout = "Jan 02, 2006"

// PreMarketSubject formats the morning briefing subject line.
func PreMarketSubject(date time.Time) string {
	return fmt.Sprintf("📈 Pre-Market Briefing - %s", date.Format(subjectDateLayout))
}

// PostCloseSubject formats the end-of-day report subject line.
func PostCloseSubject(date time.Time) string {
	return fmt.Sprintf("📊 Market Close Report - %s", date.Format(subjectDateLayout))
}

// WeeklySubject formats the Saturday summary subject line.
func WeeklySubject(date time.Time) string {
	return fmt.Sprintf("📈 Weekly Summary - %s", date.Format(subjectDateLayout))
}

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// Mailer delivers rendered reports over SMTP.
type Mailer struct {
	server     string
	port       int
	sender     string
	password   string
	recipients []string
	now        func() time.Time
	send       sendFunc
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		server:     cfg.SMTPServer,
		port:       cfg.SMTPPort,
		sender:     cfg.SenderEmail,
		password:   cfg.SenderPassword,
		recipients: cfg.Recipients,
		now:        time.Now,
		send:       smtp.SendMail,
	}
}

// SetSendFunc replaces the SMTP transport, for tests.
func (m *Mailer) SetSendFunc(fn sendFunc) { m.send = fn }

// SetClock replaces the Date header source, for tests.
func (m *Mailer) SetClock(now func() time.Time) { m.now = now }

// Send builds a multipart message with a plain-text fallback and
// delivers it to every configured recipient in one SMTP session.
func (m *Mailer) Send(subject, htmlBody string) error {
	if m.sender == "" || m.password == "" {
		return fmt.Errorf("smtp sender not configured")
	}
	if len(m.recipients) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	msg, err := m.buildMessage(subject, htmlBody)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.server, m.port)
	auth := smtp.PlainAuth("", m.sender, m.password, m.server)
	if err := m.send(addr, auth, m.sender, m.recipients, msg); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	logx.Info("report delivered", "subject", subject, "recipients", len(m.recipients))
	return nil
}

func (m *Mailer) buildMessage(subject, htmlBody string) ([]byte, error) {
	from := []*mail.Address{{Address: m.sender}}
	to := make([]*mail.Address, 0, len(m.recipients))
	for _, r := range m.recipients {
		to = append(to, &mail.Address{Address: r})
	}

	var h mail.Header
	h.SetDate(m.now())
	h.SetSubject(subject)
	h.SetAddressList("From", from)
	h.SetAddressList("To", to)

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	iw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create inline: %w", err)
	}

	var textHeader mail.InlineHeader
	textHeader.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	tp, err := iw.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("create text part: %w", err)
	}
	if _, err := io.WriteString(tp, htmlToText(htmlBody)); err != nil {
		return nil, err
	}
	tp.Close()

	var htmlHeader mail.InlineHeader
	htmlHeader.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	hp, err := iw.CreatePart(htmlHeader)
	if err != nil {
		return nil, fmt.Errorf("create html part: %w", err)
	}
	if _, err := io.WriteString(hp, htmlBody); err != nil {
		return nil, err
	}
	hp.Close()

	iw.Close()
	mw.Close()
	return buf.Bytes(), nil
}

var (
	styleRe = regexp.MustCompile(`(?s)<style.*?</style>`)
	breakRe = regexp.MustCompile(`(?i)</(p|div|tr|h1|h2|li|table)>`)
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	blankRe = regexp.MustCompile(`\n{3,}`)
)

// htmlToText produces a rough plain-text rendering for clients that
// cannot display HTML.
func htmlToText(html string) string {
	s := styleRe.ReplaceAllString(html, "")
	s = breakRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	s = strings.Join(lines, "\n")
	s = blankRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
