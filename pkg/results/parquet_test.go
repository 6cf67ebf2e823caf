package results

import (
	"os"
	"path/filepath"
	"testing"
)

func sampleResults() []OperationResult {
	return []OperationResult{
		{
			RunID:           "run-1",
			IterationNumber: 0,
			OpType:          OpRead,
			Latency:         0.0042,
			NumKeysTouched:  1,
			TableName:       "item",
			TableSchema:     "CREATE TABLE item (\n  i_id int4 NOT NULL\n);",
			InitialDBSize:   1 << 20,
			SQLQuery:        "SELECT * FROM item WHERE i_id = $1 -- args: [7]",
			RandomSeed:      42,
		},
		{
			RunID:           "run-1",
			IterationNumber: 1,
			OpType:          OpRangeUpdate,
			Latency:         0,
			NumKeysTouched:  0,
			TableName:       "item",
			InitialDBSize:   1 << 20,
			RandomSeed:      42,
			Err:             "connection reset",
		},
	}
}

func TestParquetWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewParquetWriter(dir)
	if err := w.Write(sampleResults()); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "run-1.parquet")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected parquet file at %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Error("parquet file is empty")
	}
}

func TestParquetWriterEmpty(t *testing.T) {
	w := NewParquetWriter(t.TempDir())
	if err := w.Write(nil); err == nil {
		t.Error("writing zero results should error")
	}
}

func TestParquetWriterFileName(t *testing.T) {
	dir := t.TempDir()
	w := &ParquetWriter{OutputDir: dir, FileName: "custom.parquet"}
	if err := w.Write(sampleResults()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "custom.parquet")); err != nil {
		t.Errorf("expected custom.parquet: %v", err)
	}
}

func TestOpTypeRoundTrip(t *testing.T) {
	for _, name := range []string{
		"BRANCH_CREATE", "BRANCH_CONNECT", "READ", "INSERT",
		"UPDATE", "COMMIT", "RANGE_UPDATE",
	} {
		code, ok := ParseOpType(name)
		if !ok {
			t.Errorf("ParseOpType(%q) failed", name)
			continue
		}
		if code.String() != name {
			t.Errorf("round trip %q -> %d -> %q", name, code, code.String())
		}
	}

	if _, ok := ParseOpType("DELETE"); ok {
		t.Error("DELETE should not parse as an operation kind")
	}
	if _, ok := ParseOpType("UNSPECIFIED"); ok {
		t.Error("UNSPECIFIED should not be requestable")
	}
}
