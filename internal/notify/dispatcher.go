package notify

import (
	"context"

	catalog_repo "github.com/ArkadyKonoplya/shepherd-backend/internal/repo/catalog-repo"
	"github.com/ArkadyKonoplya/shepherd-backend/internal/queue"
	worker_task "github.com/ArkadyKonoplya/shepherd-backend/internal/worker/tasks"
	"github.com/rs/zerolog/log"
)

// Dispatcher resolves audiences and hands composed messages to the push
// queue. Delivery is fire-and-forget: a failure here never rolls back the
// task write it rode along with.
type Dispatcher interface {
	Dispatch(ctx context.Context, planID, creatorID string, messages []Message)
}

type QueueDispatcher struct {
	catalog   catalog_repo.CatalogRepoContract
	taskQueue queue.TaskQueueClient
}

func NewQueueDispatcher(catalog catalog_repo.CatalogRepoContract, taskQueue queue.TaskQueueClient) Dispatcher {
	return &QueueDispatcher{
		catalog:   catalog,
		taskQueue: taskQueue,
	}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, planID, creatorID string, messages []Message) {
	for _, msg := range messages {
		var recipients []string

		switch msg.Audience {
		case AudienceUser:
			recipients = []string{msg.UserID}
		case AudienceFarm:
			farmUserIDs, err := d.catalog.ListFarmUserIDs(ctx, planID, &creatorID)
			if err != nil {
				log.Error().Str("plan_id", planID).Str("message_key", err.MessageKey).Msg("Failed to resolve farm audience for notification.")
				continue
			}
			recipients = farmUserIDs
		}

		if len(recipients) == 0 {
			continue
		}

		payload := &worker_task.SendPushNotificationPayload{
			RecipientIDs: recipients,
			Title:        msg.Title,
			Body:         msg.Body,
		}

		if err := d.taskQueue.EnqueueSendPushNotification(payload); err != nil {
			log.Error().Err(err).Str("title", msg.Title).Msg("Failed to enqueue push notification.")
		}
	}
}
