package server

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/ayeeshaliu/radar-nc-api/internal/config"
	"github.com/ayeeshaliu/radar-nc-api/internal/startups"
)

type smtpMailer struct {
	cfg    config.SMTP
	logger *slog.Logger
}

// newSMTPMailer builds the contact notifier. Without an SMTP host and from
// address it degrades to a noop; contact requests are still logged.
func newSMTPMailer(cfg config.SMTP, logger *slog.Logger) startups.ContactNotifier {
	if cfg.Host == "" || cfg.From == "" {
		logger.Info("mailer disabled; SMTP host or from missing")
		return &noopMailer{}
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	logger.Info("mailer enabled",
		"host", cfg.Host, "port", cfg.Port, "security", cfg.Security, "user", maskForLog(cfg.User))
	return &smtpMailer{cfg: cfg, logger: logger}
}

type noopMailer struct{}

func (n *noopMailer) SendContactRequest(string, string, string, *startups.ContactRequest) error {
	return nil
}
func (n *noopMailer) Enabled() bool { return false }

func (m *smtpMailer) Enabled() bool { return true }

func (m *smtpMailer) SendContactRequest(to, startupName, requestID string, req *startups.ContactRequest) error {
	var body bytes.Buffer
	fmt.Fprintf(&body, "Someone asked to get in touch with %s through the directory.\n\n", startupName)
	fmt.Fprintf(&body, "Name: %s\n", req.RequesterName)
	fmt.Fprintf(&body, "Email: %s\n", req.RequesterEmail)
	if req.CompanyName != "" {
		fmt.Fprintf(&body, "Company: %s\n", req.CompanyName)
	}
	fmt.Fprintf(&body, "\n%s\n\nReference: %s\n", req.Message, requestID)

	msg := message(m.cfg.From, to, "New contact request for "+startupName, body.String())

	switch m.cfg.Security {
	case "ssl", "smtps":
		return m.sendSSL(to, msg)
	case "none":
		return smtp.SendMail(m.addr(), nil, m.cfg.From, []string{to}, msg)
	default:
		return m.sendStartTLS(to, msg)
	}
}

func (m *smtpMailer) sendStartTLS(to string, msg []byte) error {
	addr := m.addr()
	host, _, _ := net.SplitHostPort(addr)

	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if m.cfg.User != "" && m.cfg.Pass != "" {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	return send(client, m.cfg.From, to, msg)
}

func (m *smtpMailer) sendSSL(to string, msg []byte) error {
	conn, err := tls.Dial("tcp", m.addr(), &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return err
	}
	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if m.cfg.User != "" && m.cfg.Pass != "" {
		auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	return send(client, m.cfg.From, to, msg)
}

func send(client *smtp.Client, from, to string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (m *smtpMailer) addr() string {
	return net.JoinHostPort(m.cfg.Host, m.cfg.Port)
}

func message(from, to, subject, body string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n")
	return buf.Bytes()
}

func maskForLog(s string) string {
	if s == "" {
		return "(none)"
	}
	if len(s) <= 2 {
		return "***"
	}
	return s[:1] + "***" + s[len(s)-1:]
}
