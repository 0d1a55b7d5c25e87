package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"goflare.io/ticketpal/models/enum"
)

func TestMilestones(t *testing.T) {
	issued := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		now   time.Time
		types []enum.ReminderType
	}{
		{
			name:  "fresh ticket gets both",
			now:   issued,
			types: []enum.ReminderType{enum.ReminderTypeDiscountPeriod, enum.ReminderTypeFullCharge},
		},
		{
			name:  "deadline day late evening",
			now:   time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC),
			types: []enum.ReminderType{enum.ReminderTypeDiscountPeriod, enum.ReminderTypeFullCharge},
		},
		{
			name:  "deadline day after the deadline hour",
			now:   time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			types: []enum.ReminderType{enum.ReminderTypeDiscountPeriod, enum.ReminderTypeFullCharge},
		},
		{
			name:  "discount deadline yesterday is dropped",
			now:   time.Date(2024, 3, 16, 0, 0, 1, 0, time.UTC),
			types: []enum.ReminderType{enum.ReminderTypeFullCharge},
		},
		{
			name:  "both passed",
			now:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			types: []enum.ReminderType{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Milestones(issued, tt.now)
			types := make([]enum.ReminderType, 0, len(got))
			for _, m := range got {
				types = append(types, m.Type)
			}
			assert.Equal(t, tt.types, types)
		})
	}
}

func TestMilestonesTimestamps(t *testing.T) {
	issued := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	got := Milestones(issued, issued)

	assert.Len(t, got, 2)
	assert.Equal(t, issued.AddDate(0, 0, 14), got[0].SendAt)
	assert.Equal(t, issued.AddDate(0, 0, 28), got[1].SendAt)
}
