package delivery

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"time"

	gomail "github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/mhagen/workmain/internal/model"
)

// Email delivers reports as plain-text messages over SMTP.
type Email struct {
	host     string
	port     string
	username string
	password string
	from     string
	to       []string
	useTLS   bool
}

// NewEmail creates an email deliverer from delivery settings and the
// SMTP password. The sender defaults to the SMTP username when
// email_from is unset.
func NewEmail(cfg model.DeliveryConfig, password string) *Email {
	from := cfg.EmailFrom
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &Email{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: password,
		from:     from,
		to:       cfg.EmailTo,
		useTLS:   cfg.SMTPTLS,
	}
}

// Channel implements Deliverer.
func (e *Email) Channel() string { return ChannelEmail }

// Deliver composes the report as a MIME message and submits it over
// SMTP. The returned id is the generated Message-Id.
func (e *Email) Deliver(_ context.Context, subject, body string) (string, error) {
	if len(e.to) == 0 {
		return "", fmt.Errorf("no email recipients configured")
	}

	msgID := uuid.New().String() + "@workmain"
	raw, err := composeMessage(e.from, e.to, subject, body, msgID, time.Now())
	if err != nil {
		return "", err
	}

	if err := e.send(raw); err != nil {
		return "", err
	}
	return msgID, nil
}

// composeMessage builds a single-part plain-text MIME message.
func composeMessage(from string, to []string, subject, body, msgID string, date time.Time) ([]byte, error) {
	var h gomail.Header
	h.SetDate(date)
	h.SetSubject(subject)
	h.SetMsgIDList("Message-Id", []string{msgID})
	h.SetAddressList("From", []*gomail.Address{{Address: from}})

	toAddrs := make([]*gomail.Address, 0, len(to))
	for _, addr := range to {
		toAddrs = append(toAddrs, &gomail.Address{Address: addr})
	}
	h.SetAddressList("To", toAddrs)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := gomail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("composing message: %w", err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		w.Close()
		return nil, fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing message: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Email) send(raw []byte) error {
	addr := e.host + ":" + e.port

	var client *smtp.Client
	var err error
	if e.useTLS {
		client, err = e.dialTLS(addr)
	} else {
		client, err = e.dialStartTLS(addr)
	}
	if err != nil {
		return err
	}
	defer client.Close()

	auth := smtp.PlainAuth("", e.username, e.password, e.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}

	if err := client.Mail(e.from); err != nil {
		return fmt.Errorf("SMTP MAIL FROM: %w", err)
	}
	for _, rcpt := range e.to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("SMTP RCPT TO %s: %w", rcpt, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA: %w", err)
	}
	if _, err := writer.Write(raw); err != nil {
		return fmt.Errorf("writing email body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing email body: %w", err)
	}

	return client.Quit()
}

// dialTLS opens an implicit-TLS SMTP connection.
func (e *Email) dialTLS(addr string) (*smtp.Client, error) {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: e.host})
	if err != nil {
		return nil, fmt.Errorf("TLS dial to %s: %w", addr, err)
	}
	client, err := smtp.NewClient(conn, e.host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating SMTP client: %w", err)
	}
	return client, nil
}

// dialStartTLS opens a plain connection and upgrades with STARTTLS.
func (e *Email) dialStartTLS(addr string) (*smtp.Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial to %s: %w", addr, err)
	}
	client, err := smtp.NewClient(conn, e.host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating SMTP client: %w", err)
	}
	if err := client.StartTLS(&tls.Config{ServerName: e.host}); err != nil {
		client.Close()
		return nil, fmt.Errorf("SMTP STARTTLS: %w", err)
	}
	return client, nil
}
