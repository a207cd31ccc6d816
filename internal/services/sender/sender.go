// Package services содержит воркер рассылки: принимает задания дайджеста
// из очереди и отправляет письма через SMTP транспорт.
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/lab-reserve/internal/lib/sl"
	"github.com/magabrotheeeer/lab-reserve/internal/lib/smtp"
	"github.com/magabrotheeeer/lab-reserve/internal/metrics"
	"github.com/magabrotheeeer/lab-reserve/internal/models"
)

// ErrTransportNotConfigured SMTP транспорт не настроен.
var ErrTransportNotConfigured = errors.New("smtp transport is not configured")

// SenderService отправляет письма еженедельного дайджеста.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendWeeklyDigest обрабатывает одно задание из очереди: разбирает
// DigestJob и отправляет письмо пользователю.
func (s *SenderService) SendWeeklyDigest(body []byte) error {
	var job models.DigestJob
	if err := json.Unmarshal(body, &job); err != nil {
		s.log.Error("failed to unmarshal digest job", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := "Lab Reserve: your weekly booking digest"
	if s.transport == nil {
		// SMTP не настроен: дайджест только логируется.
		s.log.Info("smtp not configured, digest logged only",
			slog.String("email", job.Email),
			slog.Int("active", len(job.ActiveBookings)),
			slog.Int("expiring", len(job.ExpiringBookings)))
		return nil
	}
	if err := s.sendEmail([]string{job.Email}, subject, renderDigest(job)); err != nil {
		return err
	}
	metrics.DigestsSent.Inc()
	return nil
}

// SendTestEmail отправляет проверочное письмо на указанный адрес,
// подтверждающее работоспособность SMTP-настроек.
func (s *SenderService) SendTestEmail(to string) error {
	if s.transport == nil {
		return ErrTransportNotConfigured
	}

	body := strings.Join([]string{
		"Email is working!",
		"",
		"Your SMTP configuration is correct. Weekly digests will be delivered on schedule.",
		"Sent: " + time.Now().UTC().Format(time.RFC3339),
		"",
	}, "\n")
	if err := s.sendEmail([]string{to}, "Lab Reserve: email test", body); err != nil {
		return err
	}

	s.log.Info("test email sent", slog.String("to", to))
	return nil
}

func renderDigest(job models.DigestJob) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello, %s!\n\n", job.Name)

	if len(job.ExpiringBookings) > 0 {
		fmt.Fprintf(&b, "Action required: %d of your bookings expire within a week:\n", len(job.ExpiringBookings))
		for _, summary := range job.ExpiringBookings {
			fmt.Fprintf(&b, "  - %s expires %s (%d day(s) left)\n",
				summary.ServerName, summary.EndDate.Format("2006-01-02"), summary.DaysRemaining)
		}
		b.WriteString("\n")
	}

	if len(job.ActiveBookings) == 0 {
		b.WriteString("You have no active bookings this week.\n")
	} else {
		b.WriteString("Your active bookings:\n")
		for _, summary := range job.ActiveBookings {
			fmt.Fprintf(&b, "  - %s: %s .. %s, %d day(s) left (%s)\n",
				summary.ServerName,
				summary.StartDate.Format("2006-01-02"),
				summary.EndDate.Format("2006-01-02"),
				summary.DaysRemaining,
				summary.Purpose)
		}
	}

	fmt.Fprintf(&b, "\nServers available right now: %d\n", job.ServersAvailable)
	return b.String()
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
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
	defer func() { _ = client.Close() }()

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
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("digest email sent", "to", to)
	return nil
}
