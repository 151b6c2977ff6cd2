package worker_handler

import (
	"context"

	worker_task "github.com/ArkadyKonoplya/shepherd-backend/internal/worker/tasks"
	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

func (wh *WorkerHandler) SendPushNotification() asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		log.Info().Msg("Worker handler: Send push notification hit.")
		var p worker_task.SendPushNotificationPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			log.Error().Err(err).Msg("Worker handler: Error occured when trying to unmarshal task payload.")
			return err
		}

		if len(p.RecipientIDs) == 0 {
			return nil // idempotent
		}

		tokens, err := wh.cr.ListActiveDeviceTokens(ctx, p.RecipientIDs)
		if err != nil {
			log.Error().Str("message_key", err.MessageKey).Msg("Worker handler: Error occured when trying to call repo -> ListActiveDeviceTokens.")
			return err
		}

		log.Info().Int("recipients", len(p.RecipientIDs)).Int("devices", len(tokens)).Msg("Worker handler: Preparing to hit SendPush service.")
		return wh.pusher.SendPush(tokens, p.Title, p.Body)
	}
}
