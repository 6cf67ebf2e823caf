package bench

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/data"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/results"
)

// fakeBackend records every dispatched call and can be scripted to
// fail specific operation kinds.
type fakeBackend struct {
	calls   []string
	keys    int64
	failOn  map[results.OpType]error
	catalog *data.Catalog
	dbSize  int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{keys: 1, failOn: make(map[results.OpType]error), dbSize: 4096}
}

func (f *fakeBackend) Connect(ctx context.Context) error { f.calls = append(f.calls, "connect"); return nil }
func (f *fakeBackend) Disconnect() error                 { f.calls = append(f.calls, "disconnect"); return nil }

func (f *fakeBackend) Read(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	f.calls = append(f.calls, "read:"+sql)
	if err := f.failOn[results.OpRead]; err != nil {
		return 0, err
	}
	return f.keys, nil
}

func (f *fakeBackend) Insert(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	f.calls = append(f.calls, "insert:"+sql)
	if err := f.failOn[results.OpInsert]; err != nil {
		return 0, err
	}
	return f.keys, nil
}

func (f *fakeBackend) Update(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	f.calls = append(f.calls, "update:"+sql)
	if err := f.failOn[results.OpUpdate]; err != nil {
		return 0, err
	}
	return f.keys, nil
}

func (f *fakeBackend) CreateBranch(ctx context.Context, name string) error {
	f.calls = append(f.calls, "create-branch:"+name)
	return f.failOn[results.OpBranchCreate]
}

func (f *fakeBackend) ConnectBranch(ctx context.Context, name string) error {
	f.calls = append(f.calls, "connect-branch:"+name)
	return f.failOn[results.OpBranchConnect]
}

func (f *fakeBackend) Commit(ctx context.Context) error {
	f.calls = append(f.calls, "commit")
	return f.failOn[results.OpCommit]
}

func (f *fakeBackend) Catalog(ctx context.Context) (*data.Catalog, error) {
	return f.catalog, nil
}

func (f *fakeBackend) DBSize(ctx context.Context) (int64, error) {
	return f.dbSize, nil
}

func testRunContext() *RunContext {
	return &RunContext{
		RunID:         "run-1",
		Seed:          42,
		InitialDBSize: 4096,
		Schemas:       map[string]string{"item": "CREATE TABLE item (id int);"},
	}
}

func TestExecutorStampsRunContext(t *testing.T) {
	backend := newFakeBackend()
	exec := NewExecutor(backend, zerolog.Nop())

	op := &Operation{
		Kind:  results.OpRead,
		Table: "item",
		SQL:   "SELECT * FROM item WHERE id = $1",
		Args:  []interface{}{int64(3)},
	}
	res, err := exec.Execute(context.Background(), testRunContext(), 5, op)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.RunID != "run-1" || res.RandomSeed != 42 || res.InitialDBSize != 4096 {
		t.Errorf("run context not stamped: %+v", res)
	}
	if res.IterationNumber != 5 {
		t.Errorf("IterationNumber = %d, want 5", res.IterationNumber)
	}
	if res.TableSchema != "CREATE TABLE item (id int);" {
		t.Errorf("TableSchema = %q", res.TableSchema)
	}
	if res.SQLQuery != "SELECT * FROM item WHERE id = $1 -- args: [3]" {
		t.Errorf("SQLQuery = %q", res.SQLQuery)
	}
	if res.Latency <= 0 {
		t.Errorf("Latency = %v, want > 0", res.Latency)
	}
	if res.NumKeysTouched != 1 {
		t.Errorf("NumKeysTouched = %d, want 1", res.NumKeysTouched)
	}
}

func TestExecutorFailureRecordsZeroLatency(t *testing.T) {
	backend := newFakeBackend()
	backend.failOn[results.OpUpdate] = errors.New("deadlock detected")
	exec := NewExecutor(backend, zerolog.Nop())

	op := &Operation{
		Kind:  results.OpUpdate,
		Table: "item",
		SQL:   "UPDATE item SET name = $1 WHERE id = $2",
		Args:  []interface{}{"x", int64(3)},
	}
	res, err := exec.Execute(context.Background(), testRunContext(), 9, op)

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("err = %v, want ExecutionError", err)
	}
	if execErr.Iteration != 9 || execErr.Op != results.OpUpdate {
		t.Errorf("ExecutionError = %+v", execErr)
	}
	if res.Latency != 0 {
		t.Errorf("failed op Latency = %v, want exactly 0", res.Latency)
	}
	if res.NumKeysTouched != 0 {
		t.Errorf("failed op NumKeysTouched = %d, want 0", res.NumKeysTouched)
	}
	if res.Err == "" {
		t.Error("failure note not recorded")
	}
	if res.SQLQuery == "" {
		t.Error("failed op must still record its statement")
	}
}

func TestExecutorDispatch(t *testing.T) {
	backend := newFakeBackend()
	exec := NewExecutor(backend, zerolog.Nop())
	ctx := context.Background()
	run := testRunContext()

	ops := []*Operation{
		{Kind: results.OpBranchCreate, Branch: "b1"},
		{Kind: results.OpBranchConnect, Branch: "b1"},
		{Kind: results.OpRangeUpdate, Table: "item", SQL: "UPDATE item SET name = $1 WHERE id BETWEEN $2 AND $3", Args: []interface{}{"x", int64(1), int64(5)}},
		{Kind: results.OpCommit},
	}
	for i, op := range ops {
		if _, err := exec.Execute(ctx, run, int64(i), op); err != nil {
			t.Fatalf("Execute(%s): %v", op.Kind, err)
		}
	}

	want := []string{
		"create-branch:b1",
		"connect-branch:b1",
		"update:UPDATE item SET name = $1 WHERE id BETWEEN $2 AND $3",
		"commit",
	}
	if len(backend.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", backend.calls, want)
	}
	for i := range want {
		if backend.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, backend.calls[i], want[i])
		}
	}
}
