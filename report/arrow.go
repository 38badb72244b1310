package report

import (
	"errors"
	"math"
	"os"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/ipc"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/carbocation/pfx"
	"github.com/dasnellings/hapTools/haplotype"
)

// DefaultChunkSize is the number of groups per Arrow record batch.
const DefaultChunkSize int = 1024

// GroupSchema is the Arrow schema of the group report. mean_dp is null
// when no member reported a depth.
var GroupSchema = arrow.NewSchema([]arrow.Field{
	{Name: "rank", Type: arrow.PrimitiveTypes.Int64},
	{Name: "code", Type: arrow.BinaryTypes.String},
	{Name: "count", Type: arrow.PrimitiveTypes.Int64},
	{Name: "frequency", Type: arrow.PrimitiveTypes.Float64},
	{Name: "uncalled", Type: arrow.FixedWidthTypes.Boolean},
	{Name: "mean_dp", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "samples", Type: arrow.ListOf(arrow.BinaryTypes.String)},
}, nil)

// ArrowWriter writes group rows to an Arrow IPC file in chunks.
type ArrowWriter struct {
	file           *os.File
	writer         *ipc.FileWriter
	builders       []array.Builder
	pool           *memory.GoAllocator
	chunkSize      int
	numRowsInChunk int
}

func NewArrowWriter(filePath string, chunkSize int) (*ArrowWriter, error) {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	pool := memory.NewGoAllocator()

	file, err := os.Create(filePath)
	if err != nil {
		return nil, pfx.Err(err)
	}

	writer, err := ipc.NewFileWriter(file, ipc.WithSchema(GroupSchema), ipc.WithAllocator(pool))
	if err != nil {
		file.Close()
		return nil, pfx.Err(err)
	}

	builders := make([]array.Builder, len(GroupSchema.Fields()))
	for i, field := range GroupSchema.Fields() {
		builders[i] = array.NewBuilder(pool, field.Type)
	}

	return &ArrowWriter{
		file:      file,
		writer:    writer,
		builders:  builders,
		pool:      pool,
		chunkSize: chunkSize,
	}, nil
}

func (aw *ArrowWriter) Write(r Row) error {
	aw.builders[0].(*array.Int64Builder).Append(int64(r.Rank))
	aw.builders[1].(*array.StringBuilder).Append(r.Code)
	aw.builders[2].(*array.Int64Builder).Append(int64(r.Count))
	aw.builders[3].(*array.Float64Builder).Append(r.Frequency)
	aw.builders[4].(*array.BooleanBuilder).Append(r.Uncalled)
	if math.IsNaN(r.MeanDP) {
		aw.builders[5].(*array.Float64Builder).AppendNull()
	} else {
		aw.builders[5].(*array.Float64Builder).Append(r.MeanDP)
	}
	lb := aw.builders[6].(*array.ListBuilder)
	lb.Append(true)
	vb := lb.ValueBuilder().(*array.StringBuilder)
	for _, s := range r.Samples {
		vb.Append(s)
	}

	aw.numRowsInChunk++
	if aw.numRowsInChunk == aw.chunkSize {
		return aw.writeChunk()
	}
	return nil
}

func (aw *ArrowWriter) writeChunk() error {
	cols := make([]arrow.Array, len(aw.builders))
	for i, b := range aw.builders {
		// NewArray resets the builder
		cols[i] = b.NewArray()
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()

	record := array.NewRecord(GroupSchema, cols, int64(aw.numRowsInChunk))
	defer record.Release()

	if err := aw.writer.Write(record); err != nil {
		return pfx.Err(err)
	}
	aw.numRowsInChunk = 0
	return nil
}

// Close flushes any partial chunk, writes the file footer and closes the file.
func (aw *ArrowWriter) Close() error {
	if aw.numRowsInChunk > 0 {
		if err := aw.writeChunk(); err != nil {
			return err
		}
	}
	for _, b := range aw.builders {
		b.Release()
	}
	if err := aw.writer.Close(); err != nil {
		return pfx.Err(err)
	}
	if err := aw.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return pfx.Err(err)
	}
	return nil
}

// WriteArrow writes the group report of res to an Arrow IPC file.
func WriteArrow(filePath string, res *haplotype.Result, chunkSize int) error {
	aw, err := NewArrowWriter(filePath, chunkSize)
	if err != nil {
		return err
	}
	for _, r := range Rows(res) {
		if err = aw.Write(r); err != nil {
			aw.Close()
			return err
		}
	}
	return aw.Close()
}
