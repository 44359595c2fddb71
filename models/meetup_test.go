package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"matchday/models"
)

func TestMeetupStatus_CanRegister(t *testing.T) {
	assert.True(t, models.MeetupPublished.CanRegister())

	// full同样拒绝新报名
	assert.False(t, models.MeetupFull.CanRegister())
	assert.False(t, models.MeetupDraft.CanRegister())
	assert.False(t, models.MeetupCompleted.CanRegister())
	assert.False(t, models.MeetupCancelled.CanRegister())
}

func TestMeetupStatus_IsTerminal(t *testing.T) {
	assert.True(t, models.MeetupCompleted.IsTerminal())
	assert.True(t, models.MeetupCancelled.IsTerminal())
	assert.False(t, models.MeetupDraft.IsTerminal())
	assert.False(t, models.MeetupPublished.IsTerminal())
	assert.False(t, models.MeetupFull.IsTerminal())
}

func TestMeetupStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to models.MeetupStatus
		want     bool
	}{
		{models.MeetupDraft, models.MeetupPublished, true},
		{models.MeetupDraft, models.MeetupCancelled, true},
		{models.MeetupDraft, models.MeetupCompleted, false},
		{models.MeetupDraft, models.MeetupFull, false},
		{models.MeetupPublished, models.MeetupCompleted, true},
		{models.MeetupPublished, models.MeetupCancelled, true},
		{models.MeetupPublished, models.MeetupDraft, false},
		{models.MeetupFull, models.MeetupCompleted, true},
		{models.MeetupFull, models.MeetupCancelled, true},
		{models.MeetupFull, models.MeetupDraft, false},
		{models.MeetupCompleted, models.MeetupPublished, false},
		{models.MeetupCompleted, models.MeetupCancelled, false},
		{models.MeetupCancelled, models.MeetupPublished, false},
		// 同状态视为合法的空变更
		{models.MeetupPublished, models.MeetupPublished, true},
		{models.MeetupCompleted, models.MeetupCompleted, true},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, c.from.CanTransitionTo(c.to),
			"%s -> %s", c.from, c.to)
	}
}
