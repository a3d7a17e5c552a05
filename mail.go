package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/rs/zerolog"

	"hospital-appointments-server/internal/config"
	"hospital-appointments-server/internal/mq"
	"hospital-appointments-server/internal/notify"
)

// newEmailSender builds the sender named by MAIL_TRANSPORT. The returned
// close func releases any connection the sender holds.
func newEmailSender(ctx context.Context, cfg config.MailConfig, logger zerolog.Logger) (notify.EmailSender, func(), error) {
	noop := func() {}
	logger = logger.With().Str("component", "email").Str("transport", cfg.Transport).Logger()

	switch cfg.Transport {
	case config.TransportSendGrid:
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.From,
			FromName:  cfg.FromName,
		}, logger)
		if sender == nil {
			return nil, noop, fmt.Errorf("MAIL_TRANSPORT=sendgrid requires SENDGRID_API_KEY")
		}
		return sender, noop, nil

	case config.TransportSES:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, noop, fmt.Errorf("load aws config: %w", err)
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.From,
			FromName:  cfg.FromName,
		}, logger)
		return sender, noop, nil

	case config.TransportQueue:
		pub, err := mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, noop, err
		}
		closer := func() {
			if err := pub.Close(); err != nil {
				logger.Warn().Err(err).Msg("closing amqp publisher")
			}
		}
		return notify.NewQueueSender(pub), closer, nil

	default:
		return notify.NewStubEmailSender(logger), noop, nil
	}
}
