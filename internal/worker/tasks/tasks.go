package worker_task

const TaskSendPushNotification = "push:send_notification"

const TaskBehindScheduleScan = "low:behind_schedule_scan"

// SendPushNotificationPayload fans one rendered message out to the push
// devices of every recipient.
type SendPushNotificationPayload struct {
	RecipientIDs []string `json:"recipient_ids"`
	Title        string   `json:"title"`
	Body         string   `json:"body"`
}

type BehindScheduleScanPayload struct{}
