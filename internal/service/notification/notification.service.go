package notification

import (
	"context"
	"errors"
	"fmt"
	"lostfound/internal/common/enum"
	"lostfound/internal/pkg/logger"
	"lostfound/internal/pkg/rabbitmq"

	"go.uber.org/zap"
)

const (
	// Queue carries notifications from the web app to the worker.
	Queue       = "lostfound.notifications"
	MessageType = "notification"
)

type Notification struct {
	Channel enum.NotificationChannelEnum `json:"channel"`
	To      string                       `json:"to"`
	Subject string                       `json:"subject"`
	Body    string                       `json:"body"`
}

func (n Notification) Validate() error {
	if !n.Channel.IsValid() {
		return fmt.Errorf("unknown notification channel %q", n.Channel)
	}
	if n.To == "" {
		return errors.New("notification has no recipient")
	}
	return nil
}

type INotifier interface {
	Notify(ctx context.Context, n Notification) error
}

// CodeNotification builds the message carrying a verification code.
func CodeNotification(purpose enum.CodePurposeEnum, to, code string) Notification {
	switch purpose {
	case enum.PHONE_RESET:
		return Notification{
			Channel: enum.SMS_CHANNEL,
			To:      to,
			Subject: "Password reset code",
			Body:    fmt.Sprintf("Your Lost & Found password reset code is %s. It expires in 15 minutes.", code),
		}
	default:
		return Notification{
			Channel: enum.EMAIL_CHANNEL,
			To:      to,
			Subject: "Verify your email",
			Body:    fmt.Sprintf("Your Lost & Found verification code is %s. It expires in 15 minutes.", code),
		}
	}
}

// Log writes notifications to the application log. It is the delivery
// channel in development and for SMS, which has no gateway.
type Log struct{}

func (Log) Notify(_ context.Context, n Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	logger.Zap().Info("notification",
		zap.String("channel", n.Channel.ToString()),
		zap.String("to", n.To),
		zap.String("subject", n.Subject),
		zap.String("body", n.Body),
	)
	return nil
}

// QueueNotifier hands notifications to the worker through rabbitmq.
type QueueNotifier struct {
	publisher rabbitmq.IPublisher
	queue     string
}

func NewQueueNotifier(publisher rabbitmq.IPublisher) *QueueNotifier {
	return &QueueNotifier{publisher: publisher, queue: Queue}
}

func (q *QueueNotifier) Notify(ctx context.Context, n Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	msg, err := rabbitmq.NewMessage(MessageType, n)
	if err != nil {
		return err
	}
	if err := q.publisher.Publish(ctx, q.queue, msg); err != nil {
		return fmt.Errorf("queue notification to %s: %w", n.To, err)
	}
	return nil
}
