package email

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"intranet/core/config"
	"intranet/core/logger"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a single outgoing email
type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
	Tag      string
}

// Sender delivers email
type Sender interface {
	Send(msg *Message) error
	Provider() string
}

// NewSender builds the sender selected by EMAIL_PROVIDER
func NewSender(cfg *config.Config, log logger.Logger) (Sender, error) {
	switch cfg.EmailProvider {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, errors.New("SENDGRID_API_KEY is required for the sendgrid provider")
		}
		return &sendGridSender{
			client:   sendgrid.NewSendClient(cfg.SendGridAPIKey),
			from:     cfg.EmailFrom,
			fromName: cfg.EmailFromName,
		}, nil
	case "postmark":
		if cfg.PostmarkServerToken == "" {
			return nil, errors.New("POSTMARK_SERVER_TOKEN is required for the postmark provider")
		}
		return &postmarkSender{
			client: postmark.NewClient(cfg.PostmarkServerToken, ""),
			from:   cfg.EmailFrom,
		}, nil
	case "", "log":
		return NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.EmailProvider)
	}
}

func validate(msg *Message) error {
	if msg == nil || len(msg.To) == 0 {
		return errors.New("email has no recipients")
	}
	if msg.Subject == "" {
		return errors.New("email has no subject")
	}
	return nil
}

type sendGridSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func (s *sendGridSender) Provider() string { return "sendgrid" }

func (s *sendGridSender) Send(msg *Message) error {
	if err := validate(msg); err != nil {
		return err
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(s.fromName, s.from))
	message.Subject = msg.Subject

	personalization := mail.NewPersonalization()
	for _, to := range msg.To {
		personalization.AddTos(mail.NewEmail("", to))
	}
	message.AddPersonalizations(personalization)

	if msg.TextBody != "" {
		message.AddContent(mail.NewContent("text/plain", msg.TextBody))
	}
	if msg.HTMLBody != "" {
		message.AddContent(mail.NewContent("text/html", msg.HTMLBody))
	}
	if msg.Tag != "" {
		message.AddCategories(msg.Tag)
	}

	response, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected email: status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

type postmarkSender struct {
	client *postmark.Client
	from   string
}

func (s *postmarkSender) Provider() string { return "postmark" }

func (s *postmarkSender) Send(msg *Message) error {
	if err := validate(msg); err != nil {
		return err
	}

	response, err := s.client.SendEmail(postmark.Email{
		From:       s.from,
		To:         strings.Join(msg.To, ","),
		Subject:    msg.Subject,
		TextBody:   msg.TextBody,
		HtmlBody:   msg.HTMLBody,
		Tag:        msg.Tag,
		TrackOpens: false,
	})
	if err != nil {
		return fmt.Errorf("postmark send failed: %w", err)
	}
	if response.ErrorCode != 0 {
		return fmt.Errorf("postmark rejected email: %d %s", response.ErrorCode, response.Message)
	}
	return nil
}

// LogSender records messages instead of sending them; used in development and tests
type LogSender struct {
	mu     sync.Mutex
	logger logger.Logger
	sent   []Message
}

// NewLogSender creates a sender that only logs
func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

func (s *LogSender) Provider() string { return "log" }

func (s *LogSender) Send(msg *Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	s.mu.Lock()
	s.sent = append(s.sent, *msg)
	s.mu.Unlock()

	s.logger.Info("email (log provider)",
		logger.Strings("to", msg.To),
		logger.String("subject", msg.Subject),
		logger.String("tag", msg.Tag))
	return nil
}

// Sent returns a copy of every message passed to Send
func (s *LogSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}
