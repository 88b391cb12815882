package sns

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/shop-notify/internal/config"
	"github.com/shop-notify/internal/domain"
)

// Pusher publishes dispatched notifications to an SNS topic so mobile
// clients can receive them while no live stream is open. Best-effort: a
// publish failure is the caller's to log, never to retry.
type Pusher interface {
	Push(ctx context.Context, n *domain.Notification) error
}

type pusher struct {
	client   *sns.Client
	topicARN string
}

func NewPusher(cfg *config.Config) (Pusher, error) {
	if cfg.SNSTopicARN == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &pusher{client: sns.NewFromConfig(awsCfg), topicARN: cfg.SNSTopicARN}, nil
}

func (p *pusher) Push(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification %s: %w", n.NotificationID, err)
	}
	message := string(payload)
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &p.topicARN,
		Message:  &message,
	})
	return err
}
