package status

import (
	"testing"

	"github.com/ArkadyKonoplya/shepherd-backend/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry(
		[]entity.TaskStatus{
			{ID: "st-available", Name: entity.TaskAvailable},
			{ID: "st-accepted", Name: entity.TaskAccepted},
		},
		[]entity.WorkOrderStatus{
			{ID: "wo-open", Name: entity.WorkOrderOpen},
		},
	)

	cases := []struct {
		name   string
		lookup func() (string, bool)
		wantID string
		wantOK bool
	}{
		{
			name: "task by name",
			lookup: func() (string, bool) {
				s, ok := r.Task(entity.TaskAccepted)
				return s.ID, ok
			},
			wantID: "st-accepted",
			wantOK: true,
		},
		{
			name: "task by id",
			lookup: func() (string, bool) {
				s, ok := r.TaskByID("st-available")
				return string(s.Name), ok
			},
			wantID: "available",
			wantOK: true,
		},
		{
			name: "work order by name",
			lookup: func() (string, bool) {
				s, ok := r.WorkOrder(entity.WorkOrderOpen)
				return s.ID, ok
			},
			wantID: "wo-open",
			wantOK: true,
		},
		{
			name: "work order by id",
			lookup: func() (string, bool) {
				s, ok := r.WorkOrderByID("wo-open")
				return string(s.Name), ok
			},
			wantID: "open",
			wantOK: true,
		},
		{
			name: "unknown task name misses",
			lookup: func() (string, bool) {
				s, ok := r.Task(entity.TaskDeleted)
				return s.ID, ok
			},
			wantID: "",
			wantOK: false,
		},
		{
			name: "unknown work order id misses",
			lookup: func() (string, bool) {
				s, ok := r.WorkOrderByID("wo-missing")
				return s.ID, ok
			},
			wantID: "",
			wantOK: false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := c.lookup()
			assert.Equal(t, c.wantOK, ok)
			assert.Equal(t, c.wantID, got)
		})
	}
}
