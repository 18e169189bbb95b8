package domain

// SyncType distinguishes a full catalog sync from an inventory-only run
type SyncType string

const (
	SyncTypeFull      SyncType = "full"
	SyncTypeInventory SyncType = "inventory"
)

// IsValid checks if the sync type is valid
func (t SyncType) IsValid() bool {
	switch t {
	case SyncTypeFull, SyncTypeInventory:
		return true
	default:
		return false
	}
}

// SyncStatus represents the lifecycle of a sync run
type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

// IsValid checks if the sync status is valid
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusRunning, SyncStatusCompleted, SyncStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether a run in this status is finished
func (s SyncStatus) IsTerminal() bool {
	return s == SyncStatusCompleted || s == SyncStatusFailed
}

// CanTransitionTo checks if a status transition is valid
func (s SyncStatus) CanTransitionTo(newStatus SyncStatus) bool {
	switch s {
	case SyncStatusRunning:
		return newStatus == SyncStatusCompleted || newStatus == SyncStatusFailed
	default:
		return false // Terminal states
	}
}

// ProductOutcome is the terminal state of one product within a run
type ProductOutcome string

const (
	OutcomeCreated ProductOutcome = "created"
	OutcomeUpdated ProductOutcome = "updated"
	OutcomeSkipped ProductOutcome = "skipped"
	OutcomeFailed  ProductOutcome = "failed"
)

// IsValid checks if the product outcome is valid
func (o ProductOutcome) IsValid() bool {
	switch o {
	case OutcomeCreated, OutcomeUpdated, OutcomeSkipped, OutcomeFailed:
		return true
	default:
		return false
	}
}
