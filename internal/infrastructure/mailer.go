package infrastructure

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends the account lifecycle emails through SendGrid. Callers treat
// every send as best-effort; a failed send is logged, never surfaced.
type Mailer struct {
	apiKey string
	sender string
}

func NewMailer(apiKey, sender string) *Mailer {
	return &Mailer{apiKey: apiKey, sender: sender}
}

func (m *Mailer) SendWelcome(ctx context.Context, email, name string) error {
	subject := "Thanks for joining in!"
	body := fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name)
	return m.send(ctx, email, name, subject, body)
}

func (m *Mailer) SendCancellation(ctx context.Context, email, name string) error {
	subject := "Sorry to hear about your cancelation!"
	body := fmt.Sprintf("Hi %s, can you tell us why you canceled? Thanks for your time.", name)
	return m.send(ctx, email, name, subject, body)
}

func (m *Mailer) send(ctx context.Context, email, name, subject, body string) error {
	from := mail.NewEmail("Task Manager", m.sender)
	to := mail.NewEmail(name, email)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}
	return nil
}
