package strictcsv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"
)

// XLSXToCSV reads the first sheet of the XLSX document in r and writes each
// row through w. Rows are streamed via the sheet's row iterator; the caller
// flushes w.
func XLSXToCSV(r io.Reader, w *Writer) error {
	xlsxFile, err := excelize.OpenReader(r)
	if err != nil {
		return fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return errors.New("no sheets found in XLSX file")
	}

	// Only the first sheet maps onto a single CSV stream.
	sheetName := sheetNames[0]
	iter, err := xlsxFile.Rows(sheetName)
	if err != nil {
		return fmt.Errorf("failed to open rows iterator for sheet %s: %w", sheetName, err)
	}
	defer iter.Close()

	for iter.Next() {
		fields, err := iter.Columns()
		if err != nil {
			return fmt.Errorf("failed to read row in sheet %s: %w", sheetName, err)
		}
		if err := w.WriteFields(fields); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("failed to iterate sheet %s: %w", sheetName, err)
	}
	return nil
}

// ParquetToCSV reads the Parquet data in r and writes it through w as CSV:
// a header row built from the schema's field names followed by one row per
// record, with NULL cells written as empty fields. Parquet requires random
// access, so the input is buffered in memory first. The caller flushes w.
func ParquetToCSV(r io.Reader, w *Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return errors.New("empty parquet file")
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create parquet reader from bytes: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	header := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}
	if err := w.WriteFields(header); err != nil {
		return err
	}

	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	fields := make([]string, len(header))
	for tableReader.Next() {
		batch := tableReader.Record()
		numRows := batch.NumRows()
		for i := int64(0); i < numRows; i++ {
			for j, col := range batch.Columns() {
				fields[j] = arrowCellString(col, int(i))
			}
			if err := w.WriteFields(fields); err != nil {
				return err
			}
		}
	}
	if err := tableReader.Err(); err != nil {
		return fmt.Errorf("error reading table records: %w", err)
	}
	return nil
}

// arrowCellString renders one cell of an arrow column as CSV field text.
// NULL becomes the empty string; booleans become "1"/"0".
func arrowCellString(col arrow.Array, i int) string {
	if col.IsNull(i) {
		return ""
	}
	if b, ok := col.(*array.Boolean); ok {
		if b.Value(i) {
			return "1"
		}
		return "0"
	}
	if s, ok := col.(*array.String); ok {
		return s.Value(i)
	}
	return col.ValueStr(i)
}
