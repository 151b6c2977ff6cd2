package notify

import (
	"fmt"
	"strings"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Audience tells the dispatcher who a composed message is for. Farm messages
// fan out to every member of the task's farm except the creator.
type Audience int

const (
	AudienceUser Audience = iota
	AudienceFarm
)

type Message struct {
	Audience Audience
	UserID   string
	Title    string
	Body     string
}

// TaskContext is everything the composer needs to word a notification, fully
// resolved up front so composing stays a pure function.
type TaskContext struct {
	ActorID      string
	ActorName    string
	CreatorID    string
	AssigneeID   *string
	StatusName   entity.TaskStatusName
	ActivityName string
	CropName     string
	LocationName string
}

var titleCaser = cases.Title(language.English)

// FormatActorName renders "first last" the way notification copy expects,
// e.g. "jane doe" becomes "Jane Doe".
func FormatActorName(firstName, lastName string) string {
	return titleCaser.String(strings.ToLower(firstName)) + " " + titleCaser.String(strings.ToLower(lastName))
}

// Compose maps a lifecycle action to the notifications it triggers. An empty
// slice means nobody needs to hear about this change, e.g. the creator
// working on their own unassigned task.
func Compose(action Action, tc TaskContext) []Message {
	// Counterpart of the actor: the assignee when the creator acts, the
	// creator when the assignee acts.
	var recipient *string
	if tc.CreatorID == tc.ActorID && tc.AssigneeID != nil {
		recipient = tc.AssigneeID
	} else if tc.AssigneeID != nil && *tc.AssigneeID == tc.ActorID {
		recipient = &tc.CreatorID
	}

	activity := strings.ToLower(tc.ActivityName)
	crop := strings.ToLower(tc.CropName)

	assignedToOther := tc.AssigneeID != nil && *tc.AssigneeID != tc.CreatorID

	var messages []Message

	switch action {
	case ActionCreate:
		if assignedToOther && recipient != nil {
			messages = append(messages, Message{
				Audience: AudienceUser,
				UserID:   *recipient,
				Title:    "New Task Assigned",
				Body:     fmt.Sprintf("You have been assigned a %s task for %s in %s by %s.", activity, crop, tc.LocationName, tc.ActorName),
			})
		} else if tc.AssigneeID == nil {
			messages = append(messages, Message{
				Audience: AudienceFarm,
				Title:    "New Available Task",
				Body:     fmt.Sprintf("A new %s task for %s in %s has been made available by %s.", activity, crop, tc.LocationName, tc.ActorName),
			})
		}

	case ActionUpdate:
		if assignedToOther && recipient != nil {
			status := "updated"
			switch tc.StatusName {
			case entity.TaskAccepted, entity.TaskDeclined, entity.TaskCompleted:
				status = string(tc.StatusName)
			}

			messages = append(messages, Message{
				Audience: AudienceUser,
				UserID:   *recipient,
				Title:    fmt.Sprintf("A Task Has Been %s", titleCaser.String(status)),
				Body:     fmt.Sprintf("The %s task for %s in %s has been %s by %s.", activity, crop, tc.LocationName, status, tc.ActorName),
			})
		} else if tc.AssigneeID == nil {
			if tc.StatusName == entity.TaskDeclined {
				// A declined task has already dropped its assignee, so the
				// farm hears that it is up for grabs again.
				messages = append(messages, Message{
					Audience: AudienceFarm,
					Title:    "Declined Task Available",
					Body:     fmt.Sprintf("The %s task for %s in %s is now available.", activity, crop, tc.LocationName),
				})
			} else {
				messages = append(messages, Message{
					Audience: AudienceFarm,
					Title:    "An Available Task Has Been Updated",
					Body:     fmt.Sprintf("The %s task for %s in %s has been updated by %s.", activity, crop, tc.LocationName, tc.ActorName),
				})
			}
		}
	}

	return messages
}
