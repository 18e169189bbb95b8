package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSyncTypeIsValid(t *testing.T) {
	assert.True(t, SyncTypeFull.IsValid())
	assert.True(t, SyncTypeInventory.IsValid())
	assert.False(t, SyncType("partial").IsValid())
}

func TestSyncStatusTransitions(t *testing.T) {
	assert.True(t, SyncStatusRunning.CanTransitionTo(SyncStatusCompleted))
	assert.True(t, SyncStatusRunning.CanTransitionTo(SyncStatusFailed))
	assert.False(t, SyncStatusRunning.CanTransitionTo(SyncStatusRunning))

	// Terminal states never transition
	assert.False(t, SyncStatusCompleted.CanTransitionTo(SyncStatusFailed))
	assert.False(t, SyncStatusFailed.CanTransitionTo(SyncStatusCompleted))

	assert.False(t, SyncStatusRunning.IsTerminal())
	assert.True(t, SyncStatusCompleted.IsTerminal())
	assert.True(t, SyncStatusFailed.IsTerminal())
}

func TestDefaultSyncSettingsEnableEverything(t *testing.T) {
	settings := DefaultSyncSettings(uuid.Nil)

	assert.True(t, settings.SyncTitle)
	assert.True(t, settings.SyncPrice)
	assert.True(t, settings.SyncInventory)
	assert.True(t, settings.SyncNewProducts)
	assert.False(t, settings.AutoSync)
	assert.Equal(t, "manual", settings.SyncFrequency)
}
