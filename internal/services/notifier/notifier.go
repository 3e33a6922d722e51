// Package services contains the notifier that emails posting owners when
// the sweeper deactivates their expired jobs.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devhire/job-board/internal/lib/sl"
	"github.com/devhire/job-board/internal/lib/smtp"
	"github.com/devhire/job-board/internal/models"
)

// NotifierService consumes expired-job events and sends the owner a mail.
type NotifierService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewNotifierService creates a new NotifierService.
func NewNotifierService(transport smtp.TransportInterface, log *slog.Logger) *NotifierService {
	return &NotifierService{
		transport: transport,
		log:       log,
	}
}

// SendExpiredJobNotice handles one expired-job event. Events without an
// owner email are acknowledged and skipped.
func (s *NotifierService) SendExpiredJobNotice(body []byte) error {
	var message models.ExpiredJobInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	if message.OwnerEmail == "" {
		s.log.Warn("expired job has no owner email", slog.String("job_uid", message.JobUID))
		return nil
	}

	to := []string{message.OwnerEmail}
	subject := "Your job posting has expired"
	bodyText := fmt.Sprintf("Hello %s!\n\nYour posting \"%s\" at %s has passed its application deadline and was taken off the board.\n\nYou can publish a new posting at any time.",
		message.OwnerName, message.Title, message.Company)

	return s.sendEmail(to, subject, bodyText)
}

func (s *NotifierService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
