package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJob_Expired(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (&Job{}).Expired(now), "no deadline never expires")
	assert.True(t, (&Job{Deadline: &past}).Expired(now))
	assert.False(t, (&Job{Deadline: &future}).Expired(now))
}

func TestJob_PostedLabel(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		createdAt time.Time
		want      string
	}{
		{"seconds ago", now.Add(-30 * time.Second), "Just posted"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m Ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3h Ago"},
		{"days ago", now.Add(-49 * time.Hour), "2d Ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &Job{CreatedAt: tt.createdAt}
			assert.Equal(t, tt.want, j.PostedLabel(now))
		})
	}
}

func TestViewOf(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	view := ViewOf(&Job{Title: "Go Developer", Deadline: &past, CreatedAt: now.Add(-time.Minute)}, now)
	assert.True(t, view.IsExpired)
	assert.Equal(t, "1m Ago", view.PostedDate)
	assert.Equal(t, "Go Developer", view.Title)
}
