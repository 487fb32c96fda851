package push

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snsTypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSProvider sends booking confirmations as transactional SMS. It is
// skipped for notifications that carry no phone number.
type SNSProvider struct {
	client *sns.Client
	region string
}

func NewSNSProvider(region string) (*SNSProvider, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SNSProvider{
		client: sns.NewFromConfig(cfg),
		region: region,
	}, nil
}

func (s *SNSProvider) Send(ctx context.Context, notification *Notification) error {
	if notification.Phone == "" {
		return nil
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(notification.Phone),
		Message:     aws.String(notification.Title + "\n" + notification.Body),
		MessageAttributes: map[string]snsTypes.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	}

	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("failed to publish SMS: %w", err)
	}
	return nil
}
