package use_cases

import (
	"github.com/ArkadyKonoplya/shepherd-backend/internal/queue"
	worker_task "github.com/ArkadyKonoplya/shepherd-backend/internal/worker/tasks"
	"github.com/stretchr/testify/mock"
)

var _ queue.TaskQueueClient = (*MockTaskQueue)(nil)

// Mock TaskQueue for testing
type MockTaskQueue struct {
	mock.Mock
}

func (m *MockTaskQueue) EnqueueSendPushNotification(payload *worker_task.SendPushNotificationPayload) error {
	args := m.Called(payload)
	return args.Error(0)
}
