package services

import (
	"context"
	"time"

	"carpool/pkg/logger"
	"carpool/pkg/push"
)

// notificationService fans notifications out to every configured provider.
// Dispatch is fire-and-forget: delivery runs in the background with its own
// deadline and failures are logged, never returned.
type notificationService struct {
	providers []push.Provider
	logger    *logger.Logger
	timeout   time.Duration
}

func NewNotificationService(log *logger.Logger, providers ...push.Provider) Notifier {
	return &notificationService{
		providers: providers,
		logger:    log,
		timeout:   10 * time.Second,
	}
}

func (s *notificationService) Dispatch(title, body string) {
	s.send(&push.Notification{Title: title, Body: body})
}

func (s *notificationService) DispatchTo(phone, title, body string) {
	s.send(&push.Notification{Title: title, Body: body, Phone: phone})
}

func (s *notificationService) send(notification *push.Notification) {
	for _, provider := range s.providers {
		go func(p push.Provider) {
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			if err := p.Send(ctx, notification); err != nil {
				s.logger.WithError(err).Warn("Notification delivery failed")
			}
		}(provider)
	}
}

// NopNotifier is used when no provider is configured.
type NopNotifier struct{}

func (NopNotifier) Dispatch(title, body string)          {}
func (NopNotifier) DispatchTo(phone, title, body string) {}
