package service

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// EmailService отправляет транзакционные письма.
type EmailService interface {
	SendClassroomInvite(ctx context.Context, toEmail, classroomName, joinCode string) error
}

// NoopEmailService используется, когда отправка почты не сконфигурирована.
type NoopEmailService struct{}

func (s *NoopEmailService) SendClassroomInvite(ctx context.Context, toEmail, classroomName, joinCode string) error {
	log.Printf("[EmailService] noop send classroom invite to=%s classroom=%q", toEmail, classroomName)
	return nil
}

// ResendEmailService отправляет письма через Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendClassroomInvite(ctx context.Context, toEmail, classroomName, joinCode string) error {
	if toEmail == "" || joinCode == "" {
		return fmt.Errorf("toEmail and joinCode are required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: fmt.Sprintf("You are invited to join %s", classroomName),
		Text: fmt.Sprintf("You have been invited to join the classroom %q. Use join code %s to enter.",
			classroomName, joinCode),
		Html: fmt.Sprintf("<p>You have been invited to join the classroom <strong>%s</strong>.</p><p>Use join code <strong>%s</strong> to enter.</p>",
			classroomName, joinCode),
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("[EmailService] Failed to send classroom invite to=%s: %v", toEmail, err)
		return fmt.Errorf("failed to send classroom invite: %w", err)
	}

	log.Printf("[EmailService] Classroom invite sent to=%s id=%s", toEmail, sent.Id)
	return nil
}
