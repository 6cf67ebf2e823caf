package bench

import (
	"errors"
	"testing"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/results"
)

func TestBranchConnectBeforeCreate(t *testing.T) {
	b := NewBranchState("")
	err := b.Apply(results.OpBranchConnect, "")
	if err == nil {
		t.Fatal("connect before create should fail")
	}
	var transition *BranchTransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("got %T, want *BranchTransitionError", err)
	}
	if transition.From != BranchNotCreated {
		t.Errorf("got phase %s, want NOT_CREATED", transition.From)
	}
}

func TestBranchCreateThenConnect(t *testing.T) {
	b := NewBranchState("")
	if err := b.Apply(results.OpBranchCreate, "b1"); err != nil {
		t.Fatal(err)
	}
	if b.Phase != BranchCreated || b.Name != "b1" {
		t.Errorf("after create: phase=%s name=%q", b.Phase, b.Name)
	}
	if err := b.Apply(results.OpBranchConnect, ""); err != nil {
		t.Fatal(err)
	}
	if b.Phase != BranchConnected {
		t.Errorf("after connect: phase=%s", b.Phase)
	}
	// Connecting again while connected is legal.
	if err := b.Apply(results.OpBranchConnect, ""); err != nil {
		t.Errorf("repeat connect: %v", err)
	}
}

func TestBranchRepeatCreateReplacesTrackedName(t *testing.T) {
	b := NewBranchState("")
	mustApply := func(op results.OpType, name string) {
		t.Helper()
		if err := b.Apply(op, name); err != nil {
			t.Fatal(err)
		}
	}
	mustApply(results.OpBranchCreate, "b1")
	mustApply(results.OpBranchConnect, "")
	mustApply(results.OpBranchCreate, "b2")
	if b.Name != "b2" {
		t.Errorf("tracked name %q, want b2", b.Name)
	}
	if b.Phase != BranchCreated {
		t.Errorf("phase %s, want CREATED (new branch not yet connected)", b.Phase)
	}
}

func TestBranchStartingBranchAllowsConnect(t *testing.T) {
	b := NewBranchState("main")
	if b.Phase != BranchConnected || b.Name != "main" {
		t.Fatalf("bootstrap: phase=%s name=%q", b.Phase, b.Name)
	}
	if err := b.Apply(results.OpBranchConnect, ""); err != nil {
		t.Errorf("connect with starting branch: %v", err)
	}
}

func TestBranchCommitLeavesStateUnchanged(t *testing.T) {
	b := NewBranchState("")
	if err := b.Apply(results.OpCommit, ""); err != nil {
		t.Fatal(err)
	}
	if b.Phase != BranchNotCreated || b.Name != "" {
		t.Errorf("commit changed state: phase=%s name=%q", b.Phase, b.Name)
	}
}
