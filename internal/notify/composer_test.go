package notify

import (
	"testing"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestFormatActorName(t *testing.T) {
	assert.Equal(t, "Jane Doe", FormatActorName("jane", "DOE"))
}

func TestCompose(t *testing.T) {
	base := TaskContext{
		ActorID:      "creator-1",
		ActorName:    "Anna Schmidt",
		CreatorID:    "creator-1",
		ActivityName: "Planting",
		CropName:     "Corn",
		LocationName: "North Field",
	}

	cases := []struct {
		name   string
		action Action
		mutate func(tc *TaskContext)
		want   []Message
	}{
		{
			name:   "create assigned to another user notifies the assignee",
			action: ActionCreate,
			mutate: func(tc *TaskContext) {
				tc.AssigneeID = strPtr("worker-1")
				tc.StatusName = entity.TaskAssigned
			},
			want: []Message{{
				Audience: AudienceUser,
				UserID:   "worker-1",
				Title:    "New Task Assigned",
				Body:     "You have been assigned a planting task for corn in North Field by Anna Schmidt.",
			}},
		},
		{
			name:   "create without assignee broadcasts to the farm",
			action: ActionCreate,
			mutate: func(tc *TaskContext) {
				tc.StatusName = entity.TaskAvailable
			},
			want: []Message{{
				Audience: AudienceFarm,
				Title:    "New Available Task",
				Body:     "A new planting task for corn in North Field has been made available by Anna Schmidt.",
			}},
		},
		{
			name:   "create self-assigned stays quiet",
			action: ActionCreate,
			mutate: func(tc *TaskContext) {
				tc.AssigneeID = strPtr("creator-1")
				tc.StatusName = entity.TaskAssigned
			},
			want: nil,
		},
		{
			name:   "assignee accepting notifies the creator",
			action: ActionUpdate,
			mutate: func(tc *TaskContext) {
				tc.ActorID = "worker-1"
				tc.ActorName = "Uwe Bauer"
				tc.AssigneeID = strPtr("worker-1")
				tc.StatusName = entity.TaskAccepted
			},
			want: []Message{{
				Audience: AudienceUser,
				UserID:   "creator-1",
				Title:    "A Task Has Been Accepted",
				Body:     "The planting task for corn in North Field has been accepted by Uwe Bauer.",
			}},
		},
		{
			name:   "assignee completing notifies the creator",
			action: ActionUpdate,
			mutate: func(tc *TaskContext) {
				tc.ActorID = "worker-1"
				tc.ActorName = "Uwe Bauer"
				tc.AssigneeID = strPtr("worker-1")
				tc.StatusName = entity.TaskCompleted
			},
			want: []Message{{
				Audience: AudienceUser,
				UserID:   "creator-1",
				Title:    "A Task Has Been Completed",
				Body:     "The planting task for corn in North Field has been completed by Uwe Bauer.",
			}},
		},
		{
			name:   "creator updating an assigned task notifies the assignee",
			action: ActionUpdate,
			mutate: func(tc *TaskContext) {
				tc.AssigneeID = strPtr("worker-1")
				tc.StatusName = entity.TaskAssigned
			},
			want: []Message{{
				Audience: AudienceUser,
				UserID:   "worker-1",
				Title:    "A Task Has Been Updated",
				Body:     "The planting task for corn in North Field has been updated by Anna Schmidt.",
			}},
		},
		{
			name:   "decline drops the assignee and reopens it to the farm",
			action: ActionUpdate,
			mutate: func(tc *TaskContext) {
				tc.ActorID = "worker-1"
				tc.ActorName = "Uwe Bauer"
				tc.StatusName = entity.TaskDeclined
			},
			want: []Message{{
				Audience: AudienceFarm,
				Title:    "Declined Task Available",
				Body:     "The planting task for corn in North Field is now available.",
			}},
		},
		{
			name:   "updating an unassigned task notifies the farm",
			action: ActionUpdate,
			mutate: func(tc *TaskContext) {
				tc.StatusName = entity.TaskAvailable
			},
			want: []Message{{
				Audience: AudienceFarm,
				Title:    "An Available Task Has Been Updated",
				Body:     "The planting task for corn in North Field has been updated by Anna Schmidt.",
			}},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tc := base
			c.mutate(&tc)
			assert.Equal(t, c.want, Compose(c.action, tc))
		})
	}
}
