package homework_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"homework/internal/homework"
)

func TestDeriveState(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		status homework.Status
		dueAt  time.Time
		want   string
	}{
		{"pending before deadline", homework.StatusPending, future, homework.StateOpen},
		{"pending past deadline", homework.StatusPending, past, homework.StateOverdue},
		{"uncompleted before deadline", homework.StatusUncompleted, future, homework.StateOpen},
		{"uncompleted past deadline", homework.StatusUncompleted, past, homework.StateOverdue},
		{"completed before deadline", homework.StatusCompleted, future, homework.StateCompleted},
		{"completed past deadline is not overdue", homework.StatusCompleted, past, homework.StateCompleted},
		{"due exactly now is not overdue", homework.StatusPending, now, homework.StateOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, homework.DeriveState(tt.status, tt.dueAt, now))
		})
	}
}

func TestStatusIsWritable(t *testing.T) {
	assert.True(t, homework.StatusCompleted.IsWritable())
	assert.True(t, homework.StatusUncompleted.IsWritable())
	assert.False(t, homework.StatusPending.IsWritable())
	assert.False(t, homework.Status("done").IsWritable())
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, homework.RoleAdmin.IsValid())
	assert.True(t, homework.RoleStudent.IsValid())
	assert.False(t, homework.Role("tutor").IsValid())
}
