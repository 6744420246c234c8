package channels

import (
	"context"
	"fmt"
	"strings"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/jobs/runtime"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/platform/sendgrid"
	"github.com/yungbote/trainermatch-backend/internal/platform/twilio"
)

const defaultSubject = "TrainerMatch notification"

// RegisterDefaults wires email, sms and whatsapp. A nil provider client
// registers a log-only channel for that type.
func RegisterDefaults(reg *runtime.Registry, log *logger.Logger, mail sendgrid.Client, sms twilio.Client) error {
	var email, text, whatsapp runtime.Channel
	if mail != nil {
		email = NewEmail(log, mail, defaultSubject)
	} else {
		email = NewLogOnly(log, types.NotificationEmail)
	}
	if sms != nil {
		text = NewSMS(log, sms)
		whatsapp = NewWhatsApp(log, sms)
	} else {
		text = NewLogOnly(log, types.NotificationSMS)
		whatsapp = NewLogOnly(log, types.NotificationWhatsApp)
	}
	for _, ch := range []runtime.Channel{email, text, whatsapp} {
		if err := reg.Register(ch); err != nil {
			return err
		}
	}
	return nil
}

type Email struct {
	log     *logger.Logger
	client  sendgrid.Client
	subject string
}

func NewEmail(log *logger.Logger, client sendgrid.Client, subject string) *Email {
	return &Email{log: log.With("channel", types.NotificationEmail), client: client, subject: subject}
}

func (e *Email) Type() string { return types.NotificationEmail }

func (e *Email) Send(ctx context.Context, recipient, message string) (*runtime.Receipt, error) {
	res, err := e.client.Send(ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: strings.TrimSpace(recipient)}},
		Subject:    e.subject,
		Text:       message,
		Categories: []string{"notification"},
	})
	if err != nil {
		return nil, fmt.Errorf("sendgrid: %w", err)
	}
	return &runtime.Receipt{Provider: "sendgrid", MessageID: res.MessageID}, nil
}

type SMS struct {
	log    *logger.Logger
	client twilio.Client
}

func NewSMS(log *logger.Logger, client twilio.Client) *SMS {
	return &SMS{log: log.With("channel", types.NotificationSMS), client: client}
}

func (s *SMS) Type() string { return types.NotificationSMS }

func (s *SMS) Send(ctx context.Context, recipient, message string) (*runtime.Receipt, error) {
	msg, err := s.client.SendSMS(ctx, recipient, message)
	if err != nil {
		return nil, fmt.Errorf("twilio sms: %w", err)
	}
	return &runtime.Receipt{Provider: "twilio", MessageID: msg.SID}, nil
}

type WhatsApp struct {
	log    *logger.Logger
	client twilio.Client
}

func NewWhatsApp(log *logger.Logger, client twilio.Client) *WhatsApp {
	return &WhatsApp{log: log.With("channel", types.NotificationWhatsApp), client: client}
}

func (w *WhatsApp) Type() string { return types.NotificationWhatsApp }

func (w *WhatsApp) Send(ctx context.Context, recipient, message string) (*runtime.Receipt, error) {
	msg, err := w.client.SendWhatsApp(ctx, recipient, message)
	if err != nil {
		return nil, fmt.Errorf("twilio whatsapp: %w", err)
	}
	return &runtime.Receipt{Provider: "twilio", MessageID: msg.SID}, nil
}

// LogOnly stands in for a provider that is not configured.
type LogOnly struct {
	log  *logger.Logger
	kind string
}

func NewLogOnly(log *logger.Logger, kind string) *LogOnly {
	return &LogOnly{log: log.With("channel", kind), kind: kind}
}

func (l *LogOnly) Type() string { return l.kind }

func (l *LogOnly) Send(ctx context.Context, recipient, message string) (*runtime.Receipt, error) {
	l.log.Info("Provider not configured; notification logged only",
		"recipient", recipient,
		"message_len", len(message),
	)
	return &runtime.Receipt{Provider: "log"}, nil
}
