// Package mailer delivers password-reset codes by email.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wneessen/go-mail"
)

// Mailer sends a one-time code to a recipient.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, ttl time.Duration) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string, ttl time.Duration) error {
	msg, err := BuildOTPMessage(m.cfg.FromName, m.cfg.From, to, code, ttl)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTimeout(15 * time.Second),
	}
	if m.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

// BuildOTPMessage renders the plain-text and HTML bodies of the reset email.
func BuildOTPMessage(fromName, from, to, code string, ttl time.Duration) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(fromName, from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(fromName + " Password Reset OTP")

	data := otpData{AppName: fromName, Code: code, Minutes: minutes(ttl)}

	var text bytes.Buffer
	if err := otpTextTemplate.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to render text body: %w", err)
	}
	var html bytes.Buffer
	if err := otpHTMLTemplate.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render html body: %w", err)
	}

	msg.SetBodyString(mail.TypeTextPlain, text.String())
	msg.AddAlternativeString(mail.TypeTextHTML, html.String())
	return msg, nil
}

func minutes(d time.Duration) int {
	return int(math.Ceil(d.Minutes()))
}
