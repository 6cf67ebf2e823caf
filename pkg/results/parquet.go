package results

import (
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/pkg/errors"
)

// resultSchema is the fixed columnar schema consumed by the analysis
// tooling. Column order is part of the contract.
var resultSchema = arrow.NewSchema([]arrow.Field{
	{Name: "run_id", Type: arrow.BinaryTypes.String},
	{Name: "iteration_number", Type: arrow.PrimitiveTypes.Int64},
	{Name: "op_type", Type: arrow.PrimitiveTypes.Int32},
	{Name: "latency", Type: arrow.PrimitiveTypes.Float64},
	{Name: "num_keys_touched", Type: arrow.PrimitiveTypes.Int64},
	{Name: "table_name", Type: arrow.BinaryTypes.String},
	{Name: "table_schema", Type: arrow.BinaryTypes.String},
	{Name: "initial_db_size", Type: arrow.PrimitiveTypes.Int64},
	{Name: "sql_query", Type: arrow.BinaryTypes.String},
	{Name: "random_seed", Type: arrow.PrimitiveTypes.Int64},
}, nil)

// ParquetWriter writes the result dataset as a single parquet file named
// after the run.
type ParquetWriter struct {
	OutputDir string
	FileName  string // defaults to <run_id>.parquet
}

// NewParquetWriter returns a writer that creates outputDir if needed.
func NewParquetWriter(outputDir string) *ParquetWriter {
	return &ParquetWriter{OutputDir: outputDir}
}

// Write encodes the results through an Arrow record and writes them with
// the parquet encoder.
func (w *ParquetWriter) Write(results []OperationResult) error {
	if len(results) == 0 {
		return errors.New("no results to write")
	}

	if err := os.MkdirAll(w.OutputDir, 0755); err != nil {
		return errors.Wrapf(err, "create output dir %s", w.OutputDir)
	}

	name := w.FileName
	if name == "" {
		name = results[0].RunID + ".parquet"
	}
	path := filepath.Join(w.OutputDir, name)

	rec := buildRecord(results)
	defer rec.Release()

	table := array.NewTableFromRecords(resultSchema, []arrow.Record{rec})
	defer table.Release()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	props := parquet.NewWriterProperties()
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	if err := pqarrow.WriteTable(table, f, table.NumRows(), props, arrowProps); err != nil {
		return errors.Wrapf(err, "write parquet %s", path)
	}

	return nil
}

func buildRecord(results []OperationResult) arrow.Record {
	mem := memory.NewGoAllocator()
	b := array.NewRecordBuilder(mem, resultSchema)
	defer b.Release()

	for _, r := range results {
		b.Field(0).(*array.StringBuilder).Append(r.RunID)
		b.Field(1).(*array.Int64Builder).Append(r.IterationNumber)
		b.Field(2).(*array.Int32Builder).Append(int32(r.OpType))
		b.Field(3).(*array.Float64Builder).Append(r.Latency)
		b.Field(4).(*array.Int64Builder).Append(r.NumKeysTouched)
		b.Field(5).(*array.StringBuilder).Append(r.TableName)
		b.Field(6).(*array.StringBuilder).Append(r.TableSchema)
		b.Field(7).(*array.Int64Builder).Append(r.InitialDBSize)
		b.Field(8).(*array.StringBuilder).Append(r.SQLQuery)
		b.Field(9).(*array.Int64Builder).Append(r.RandomSeed)
	}

	return b.NewRecord()
}
