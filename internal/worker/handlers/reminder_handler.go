package worker_handler

import (
	"context"
	"fmt"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// BehindScheduleScan sweeps for assigned or accepted tasks whose end date has
// passed and nudges each assignee once per task. Send failures are logged and
// skipped so one broken device batch does not starve the rest of the farm.
func (wh *WorkerHandler) BehindScheduleScan() asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tasks, err := wh.tr.ListBehindScheduleTasks(ctx)
		if err != nil {
			log.Error().Str("message_key", err.MessageKey).Msg("Worker handler: Error occured when list behind schedule tasks")
			return err
		}
		// When there is no matches, do nothing
		if len(tasks) == 0 {
			return nil
		}

		byAssignee := map[string][]entity.BehindScheduleTask{}
		for _, task := range tasks {
			byAssignee[task.AssigneeID] = append(byAssignee[task.AssigneeID], task)
		}

		for assigneeID, overdue := range byAssignee {
			tokens, err := wh.cr.ListActiveDeviceTokens(ctx, []string{assigneeID})
			if err != nil {
				log.Error().Str("assignee_id", assigneeID).Str("message_key", err.MessageKey).Msg("Worker handler: Error occured when listing device tokens.")
				continue
			}
			if len(tokens) == 0 {
				continue
			}

			for _, task := range overdue {
				title := "Task Behind Schedule"
				body := fmt.Sprintf("Your %s task in %s was due on %s and is still open.", task.ActivityName, task.LocationName, task.EndDate.Format("Jan 2, 2006"))
				if sendErr := wh.pusher.SendPush(tokens, title, body); sendErr != nil {
					log.Error().Err(sendErr).Str("task_id", task.ID).Msg("Worker handler: Error occured when trying to send push.")
				}
			}
		}

		return nil
	}
}
