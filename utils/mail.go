// utils/mail.go
package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"
)

// SMTPMailer delivers OTP codes over SMTP. Configuration is read from the
// environment on every send so credential rotation does not need a restart.
type SMTPMailer struct{}

// NewSMTPMailer returns a mailer backed by the SMTP_* environment variables
func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

// SendOTP emails the verification code to the prospective account
func (m *SMTPMailer) SendOTP(email, name, code string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	fromEmail := os.Getenv("FROM_EMAIL")

	if smtpHost == "" || smtpPortStr == "" || smtpUser == "" || smtpPass == "" || fromEmail == "" {
		return fmt.Errorf("missing SMTP configuration")
	}

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %v", err)
	}

	if name == "" {
		name = "there"
	}

	subject := "Verify your CareerLink registration"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Confirm Your Registration</h2>
			<p>Hello %s,</p>
			<p>Use the following code to complete your CareerLink registration:</p>
			<h3 style="background-color: #f0f0f0; padding: 10px; font-size: 24px; letter-spacing: 5px; text-align: center;">%s</h3>
			<p>This code will expire in 10 minutes.</p>
			<p>If you did not start a registration, you can ignore this email.</p>
			<p>Thank you,<br>The CareerLink Team</p>
		</body>
		</html>
	`, name, code)

	msg := gomail.NewMessage()
	msg.SetHeader("From", fromEmail)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// MaskEmail partially masks an email address for logs and responses
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	name := parts[0]
	domain := parts[1]

	if name == "" {
		return email
	}
	if len(name) <= 2 {
		return name[:1] + "***@" + domain
	}
	return name[:2] + strings.Repeat("*", len(name)-2) + "@" + domain
}
