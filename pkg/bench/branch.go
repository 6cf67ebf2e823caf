package bench

import "github.com/HuangZiheng-o-O/db-fork-bench/pkg/results"

// BranchPhase is the lifecycle position of the run's branch context.
type BranchPhase int

const (
	BranchNotCreated BranchPhase = iota
	BranchCreated
	BranchConnected
)

func (p BranchPhase) String() string {
	switch p {
	case BranchNotCreated:
		return "NOT_CREATED"
	case BranchCreated:
		return "CREATED"
	case BranchConnected:
		return "CONNECTED"
	}
	return "UNKNOWN"
}

// BranchState tracks the currently active branch context. It is
// consulted and mutated only by branch operations, inside the run
// controller's single goroutine.
type BranchState struct {
	// Name is the tracked branch identifier; empty means the default
	// branch.
	Name  string
	Phase BranchPhase
}

// NewBranchState bootstraps the state. A non-empty starting branch
// counts as an established branch context, so BRANCH_CONNECT is legal
// from the first operation.
func NewBranchState(startingBranch string) *BranchState {
	if startingBranch != "" {
		return &BranchState{Name: startingBranch, Phase: BranchConnected}
	}
	return &BranchState{}
}

// Apply validates and performs the state transition for a branch
// operation. branchName is the name being created, or ignored for
// connect/commit.
//
// Transitions: BRANCH_CREATE is legal from any phase; issued again
// after a create it replaces the tracked identifier with the new
// branch. BRANCH_CONNECT requires at least one prior create (or a
// starting branch). COMMIT never changes the state.
func (b *BranchState) Apply(op results.OpType, branchName string) error {
	switch op {
	case results.OpBranchCreate:
		// A repeat create replaces the tracked identifier; the new
		// branch is not yet connected.
		b.Name = branchName
		b.Phase = BranchCreated
		return nil
	case results.OpBranchConnect:
		if b.Phase == BranchNotCreated {
			return &BranchTransitionError{Op: op, From: b.Phase}
		}
		b.Phase = BranchConnected
		return nil
	case results.OpCommit:
		return nil
	}
	return nil
}
