// Package mailer sends transactional mail (registration and password-reset
// OTPs) over SMTP.  Delivery is best-effort for the caller to decide on:
// errors are returned, never swallowed, but an unconfigured mailer logs
// the message instead so local development works without an SMTP account.
package mailer

import (
    "fmt"
    "net/smtp"
    "os"

    logrus "github.com/sirupsen/logrus"
)

// Mailer holds SMTP connection settings.
type Mailer struct {
    Host       string
    Port       string
    Sender     string
    SenderName string
    Password   string
}

// NewFromEnv builds a Mailer from SMTP_* environment variables.  All
// fields empty means "log instead of send".
func NewFromEnv() *Mailer {
    return &Mailer{
        Host:       os.Getenv("SMTP_HOST"),
        Port:       os.Getenv("SMTP_PORT"),
        Sender:     os.Getenv("SMTP_SENDER"),
        SenderName: os.Getenv("SMTP_SENDER_NAME"),
        Password:   os.Getenv("SMTP_PASSWORD"),
    }
}

func (m *Mailer) configured() bool {
    return m.Host != "" && m.Port != "" && m.Sender != ""
}

// SendOTP delivers a one-time password to the given address.  The purpose
// string ("verify your account", "reset your password") is interpolated
// into the subject and body.
func (m *Mailer) SendOTP(to, purpose, otp string) error {
    subject := fmt.Sprintf("Your OTP to %s", purpose)
    body := fmt.Sprintf(
        "Use the one-time password below to %s.\r\n\r\n    %s\r\n\r\n"+
            "The code is valid for 10 minutes. If you did not request this, ignore this email.\r\n",
        purpose, otp)

    if !m.configured() {
        logrus.WithFields(logrus.Fields{"to": to, "purpose": purpose}).
            Infof("smtp not configured; OTP would be %s", otp)
        return nil
    }

    msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
        m.SenderName, m.Sender, to, subject, body)
    addr := m.Host + ":" + m.Port
    auth := smtp.PlainAuth("", m.Sender, m.Password, m.Host)
    if err := smtp.SendMail(addr, auth, m.Sender, []string{to}, []byte(msg)); err != nil {
        return fmt.Errorf("send mail to %s: %w", to, err)
    }
    return nil
}
