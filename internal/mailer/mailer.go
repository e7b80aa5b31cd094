package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// Message is a single outgoing email. Bcc recipients receive the message
// but are not listed in its headers.
type Message struct {
	To      []string
	Bcc     []string
	Subject string
	HTML    string
}

// Mailer delivers messages best-effort: a failure is reported to the
// caller and never retried here
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string

	// Sender address and the display name used in the From header
	From     string
	FromName string
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == "" || cfg.From == "" {
		return nil, errors.New("smtp host, port and from address must be set")
	}

	return &SMTPMailer{cfg: cfg}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To)+len(msg.Bcc) == 0 {
		return errors.New("message has no recipients")
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	recipients := make([]string, 0, len(msg.To)+len(msg.Bcc))
	recipients = append(recipients, msg.To...)
	recipients = append(recipients, msg.Bcc...)

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	err := smtp.SendMail(addr, auth, m.cfg.From, recipients, m.encode(msg))
	if err != nil {
		return fmt.Errorf("error while sending mail. Err: %w", err)
	}

	return nil
}

// headerSanitizer strips CR and LF from header values. Subjects and
// display names may carry caller-provided text, and a bare newline there
// would terminate the header block and let the caller forge headers.
var headerSanitizer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// encode builds the wire form of the message. Bcc addresses are passed
// to the server as envelope recipients only, so no Bcc header is written.
func (m *SMTPMailer) encode(msg Message) []byte {
	b := &strings.Builder{}

	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%q <%s>", headerSanitizer.Replace(m.cfg.FromName), m.cfg.From)
	}

	fmt.Fprintf(b, "From: %s\r\n", from)
	if len(msg.To) > 0 {
		fmt.Fprintf(b, "To: %s\r\n", strings.Join(msg.To, ", "))
	}
	fmt.Fprintf(b, "Subject: %s\r\n", headerSanitizer.Replace(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	return []byte(b.String())
}
