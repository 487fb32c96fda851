package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMProvider publishes notifications to a Firebase topic the mobile
// clients subscribe to.
type FCMProvider struct {
	client *messaging.Client
	topic  string
}

func NewFCMProvider(credentialsFile, topic string) (*FCMProvider, error) {
	ctx := context.Background()

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	if topic == "" {
		topic = "rides"
	}

	return &FCMProvider{
		client: client,
		topic:  topic,
	}, nil
}

func (f *FCMProvider) Send(ctx context.Context, notification *Notification) error {
	// Phone-targeted notifications belong to the SMS providers; sending
	// them to the shared topic would broadcast personal content to every
	// subscriber.
	if notification.Phone != "" {
		return nil
	}

	message := &messaging.Message{
		Topic: f.topic,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
	}

	if _, err := f.client.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	return nil
}
