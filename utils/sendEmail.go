package utils

import (
	"os"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Initialize the SMTP mailer once and store it in a global variable
var mailer *gomail.Dialer

// InitializeMailer sets up the mailer using environment variables
func InitializeMailer() {
	mailHost := os.Getenv("SMTP_HOST")
	mailPort := os.Getenv("SMTP_PORT")
	mailUser := os.Getenv("SMTP_USER")
	mailPassword := os.Getenv("SMTP_PASSWORD")

	port, err := strconv.Atoi(mailPort)
	if err != nil {
		zap.L().Error("Invalid SMTP_PORT value, defaulting to port 25",
			zap.String("provided_port", mailPort),
			zap.Error(err),
		)
		port = 25
	}

	mailer = gomail.NewDialer(mailHost, port, mailUser, mailPassword)
	zap.L().Info("Mailer initialized successfully")
}

// GetMailer returns the shared mailer instance
func GetMailer() *gomail.Dialer {
	return mailer
}

// SendEmail sends a plain-text mail, optionally attaching a file
func SendEmail(recipient, message, subject, attachmentPath string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", message)
	if attachmentPath != "" {
		m.Attach(attachmentPath)
	}

	if err := mailer.DialAndSend(m); err != nil {
		zap.L().Error("Failed to send email",
			zap.String("recipient", recipient),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}
	return nil
}
