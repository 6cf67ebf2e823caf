// Package results defines the per-operation result record and its
// columnar export format.
package results

// OpType is the integer operation code recorded in the result dataset.
// RANGE_UPDATE carries its own code rather than reusing UPDATE's so that
// downstream analysis can separate the two write shapes.
type OpType int32

const (
	OpUnspecified   OpType = 0
	OpBranchCreate  OpType = 1
	OpBranchConnect OpType = 2
	OpRead          OpType = 3
	OpInsert        OpType = 4
	OpUpdate        OpType = 5
	OpCommit        OpType = 6
	OpRangeUpdate   OpType = 7
)

var opTypeNames = map[OpType]string{
	OpUnspecified:   "UNSPECIFIED",
	OpBranchCreate:  "BRANCH_CREATE",
	OpBranchConnect: "BRANCH_CONNECT",
	OpRead:          "READ",
	OpInsert:        "INSERT",
	OpUpdate:        "UPDATE",
	OpCommit:        "COMMIT",
	OpRangeUpdate:   "RANGE_UPDATE",
}

func (o OpType) String() string {
	if s, ok := opTypeNames[o]; ok {
		return s
	}
	return "UNSPECIFIED"
}

// ParseOpType converts a config-file operation name to its code.
func ParseOpType(s string) (OpType, bool) {
	for code, name := range opTypeNames {
		if name == s && code != OpUnspecified {
			return code, true
		}
	}
	return OpUnspecified, false
}

// OperationResult is one row of the exported dataset: a single timed
// operation with its full run context.
type OperationResult struct {
	RunID           string
	IterationNumber int64
	OpType          OpType
	Latency         float64 // seconds; exactly 0 for failed operations
	NumKeysTouched  int64
	TableName       string
	TableSchema     string // CREATE TABLE snapshot
	InitialDBSize   int64  // bytes, captured once at run start
	SQLQuery        string // exact text executed, args appended
	RandomSeed      int64
	Err             string // out-of-band failure note, not exported
}

// Writer exports an ordered sequence of results. The parquet writer is
// the production implementation; tests substitute their own.
type Writer interface {
	Write(results []OperationResult) error
}
