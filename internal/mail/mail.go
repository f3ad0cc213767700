// Package mail delivers transactional email.
package mail

import (
	"context"
	"fmt"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
	"github.com/sirupsen/logrus"
)

// Message is a plain-text email to a single recipient.
type Message struct {
	To      string
	Subject string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailjetMailer sends through the Mailjet v3.1 send API.
type MailjetMailer struct {
	client   *mailjet.Client
	from     string
	fromName string
}

func NewMailjetMailer(apiKey, secretKey, from, fromName string) *MailjetMailer {
	return &MailjetMailer{
		client:   mailjet.NewMailjetClient(apiKey, secretKey),
		from:     from,
		fromName: fromName,
	}
}

func (m *MailjetMailer) Send(_ context.Context, msg Message) error {
	messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{{
		From: &mailjet.RecipientV31{
			Email: m.from,
			Name:  m.fromName,
		},
		To: &mailjet.RecipientsV31{
			mailjet.RecipientV31{Email: msg.To},
		},
		Subject:  msg.Subject,
		TextPart: msg.Text,
	}}}
	if _, err := m.client.SendMailV31(&messages); err != nil {
		return fmt.Errorf("mailjet send to %s: %w", msg.To, err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	log *logrus.Logger
}

func NewLogMailer(log *logrus.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Text)
	return nil
}
