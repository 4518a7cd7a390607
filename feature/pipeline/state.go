package pipeline

// State is a step of the sync state machine.
type State string

const (
	StateChecking    State = "CHECKING"
	StateUpToDate    State = "UP_TO_DATE"
	StateFetching    State = "FETCHING"
	StateExtracting  State = "EXTRACTING"
	StateMerging     State = "MERGING"
	StateListing     State = "LISTING"
	StateAugmenting  State = "AUGMENTING"
	StateDone        State = "DONE"
	StateForcedMerge State = "FORCED_MERGE"
	// StateFailed ends a run that raised in any stage.
	StateFailed State = "FAILED"
)

// IsTerminal reports whether a run stops in s.
func (s State) IsTerminal() bool {
	switch s {
	case StateUpToDate, StateDone, StateFailed:
		return true
	default:
		return false
	}
}

// Mode is how a run was entered.
type Mode string

const (
	// ModeCheck starts at CHECKING.
	ModeCheck Mode = "check"
	// ModeForced starts at MERGING on the local raw tree.
	ModeForced Mode = "forced"
)
