package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/joke-moderation-service/internal/config"
	"github.com/spec-kit/joke-moderation-service/internal/events"
)

// NotificationService fans moderation events out to the delivery webhook.
// Approved jokes are what downstream delivery cares about; rejections are
// forwarded too because the stored record alone cannot express them.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to moderation events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventJokeSubmitted, n.handleJokeSubmitted)
	n.dispatcher.Subscribe(events.EventJokeApproved, n.handleJokeModerated)
	n.dispatcher.Subscribe(events.EventJokeRejected, n.handleJokeModerated)
}

func (n *NotificationService) handleJokeSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("JokeSubmitted", zap.String("joke_id", event.JokeID))
	return nil
}

func (n *NotificationService) handleJokeModerated(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("joke_id", event.JokeID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("joke_id", event.JokeID),
		zap.String("event_type", string(event.Type)))
}
