package services

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/example/zenko/internal/models"
)

// EmailService forwards contact submissions to the shop inbox. Delivery is
// best-effort and never blocks or fails the caller's primary operation.
type EmailService struct {
	apiKey string
	from   string
	to     string
}

// NewEmailService constructs an EmailService.
func NewEmailService(apiKey, from, to string) *EmailService {
	return &EmailService{apiKey: apiKey, from: from, to: to}
}

// SendContactMessage dispatches the submission asynchronously. Errors are
// logged and swallowed; the submission itself is already persisted.
func (s *EmailService) SendContactMessage(submission models.ContactSubmission) {
	if s.apiKey == "" || s.to == "" {
		log.Warn().Msg("[Email] sendgrid not configured, skipping contact notification")
		return
	}

	go func() {
		subject := submission.Subject
		if subject == "" {
			subject = "Website contact"
		}
		body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\n\nMessage:\n%s",
			submission.Name, submission.Email, submission.Phone, submission.Message)

		message := mail.NewSingleEmail(
			mail.NewEmail("Zenko", s.from),
			subject,
			mail.NewEmail("", s.to),
			body,
			body,
		)

		client := sendgrid.NewSendClient(s.apiKey)
		resp, err := client.Send(message)
		if err != nil {
			log.Error().Err(err).Msg("[Email] contact notification failed")
			return
		}
		if resp.StatusCode >= 300 {
			log.Error().Int("status", resp.StatusCode).Msg("[Email] unexpected sendgrid status")
		}
	}()
}
