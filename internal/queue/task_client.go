package queue

import (
	worker_task "github.com/ArkadyKonoplya/shepherd-backend/internal/worker/tasks"
	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type TaskQueueClient interface {
	EnqueueSendPushNotification(payload *worker_task.SendPushNotificationPayload) error
}

type TaskQueue struct {
	client *asynq.Client
}

func NewTaskQueue(redis *redis.Client) *TaskQueue {
	return &TaskQueue{
		client: asynq.NewClientFromRedisClient(redis),
	}
}

func (q *TaskQueue) Close() error {
	return q.client.Close()
}

func (q *TaskQueue) EnqueueSendPushNotification(payload *worker_task.SendPushNotificationPayload) error {
	log.Info().Msg("Preparing enqueueing payload.")
	p, _ := json.Marshal(payload)
	task := asynq.NewTask(worker_task.TaskSendPushNotification, p, asynq.Queue("push"), asynq.MaxRetry(5))

	_, err := q.client.Enqueue(task)
	return err
}
