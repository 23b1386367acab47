package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
)

// SMTPSender delivers mail over SMTP with STARTTLS, the submission
// setup the original deployment used (port 587, Gmail-compatible).
type SMTPSender struct {
	host      string
	port      string
	username  string
	password  string
	fromName  string
	fromEmail string
}

func NewSMTPSender(host, port, username, password, fromName, fromEmail string) *SMTPSender {
	if fromEmail == "" {
		fromEmail = username
	}
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), s.host)

	raw, err := s.buildMessage(msg, messageID)
	if err != nil {
		return "", fmt.Errorf("smtp build message: %w", err)
	}

	addr := net.JoinHostPort(s.host, s.port)

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("smtp dial: %w", err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return "", fmt.Errorf("smtp client: %w", err)
	}
	defer client.Quit()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return "", fmt.Errorf("smtp starttls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return "", fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(s.fromEmail); err != nil {
		return "", fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return "", fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return "", fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(raw)); err != nil {
		return "", fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("smtp close: %w", err)
	}

	return messageID, nil
}

// buildMessage renders the full message: headers plus a
// multipart/alternative body carrying the text part first, then the
// HTML part, so text-only clients still get a readable code.
func (s *SMTPSender) buildMessage(msg Message, messageID string) (string, error) {
	var b strings.Builder
	mw := multipart.NewWriter(&b)

	fmt.Fprintf(&b, "From: %q <%s>\r\n", s.fromName, s.fromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Message-ID: %s\r\n", messageID)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	b.WriteString("\r\n")

	tw, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/plain; charset="utf-8"`},
	})
	if err != nil {
		return "", err
	}
	if _, err := tw.Write([]byte(msg.Text)); err != nil {
		return "", err
	}

	hw, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="utf-8"`},
	})
	if err != nil {
		return "", err
	}
	if _, err := hw.Write([]byte(msg.HTML)); err != nil {
		return "", err
	}

	if err := mw.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}
