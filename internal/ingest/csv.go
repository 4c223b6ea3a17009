package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// ReadCSVTable implements the §4.2 `read_csv_table(path, header_rows)`
// contract: pre-read guards (size, encoding), header extraction (1 or 2
// header rows), post-read guards (zero rows, empty column names, width
// warning), and per-column hint profiling.
func ReadCSVTable(path string, headerRows int) (*SourceFrame, Headers, error) {
	if headerRows != 1 && headerRows != 2 {
		return nil, Headers{}, &ValidationError{Reason: fmt.Sprintf("header_rows must be 1 or 2, got %d", headerRows)}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, Headers{}, fmt.Errorf("ingest: stat %s: %w", path, err)
	}
	if info.Size() > MaxFileBytes {
		return nil, Headers{}, &ValidationError{Reason: fmt.Sprintf("file size %d bytes exceeds limit of %d bytes", info.Size(), MaxFileBytes)}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, Headers{}, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	return readCSVTable(f, headerRows)
}

func readCSVTable(r io.Reader, headerRows int) (*SourceFrame, Headers, error) {
	br := bufio.NewReader(r)
	peek, _ := br.Peek(3)
	switch {
	case bytes.HasPrefix(peek, utf16LEBOM), bytes.HasPrefix(peek, utf16BEBOM):
		return nil, Headers{}, &ValidationError{Reason: "UTF-16 encoded input is not supported; re-export as UTF-8"}
	case bytes.HasPrefix(peek, utf8BOM):
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = false

	var allRows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Headers{}, fmt.Errorf("ingest: parse csv: %w", err)
		}
		if !utf8.Valid(joinRecord(rec)) {
			return nil, Headers{}, &ValidationError{Reason: "input contains invalid UTF-8"}
		}
		allRows = append(allRows, rec)
	}
	if len(allRows) < headerRows {
		return nil, Headers{}, &ValidationError{Reason: "file has fewer rows than header_rows requires"}
	}

	var labels []string
	var names []string
	var dataRows [][]string
	if headerRows == 2 {
		labels = allRows[0]
		names = allRows[1]
		dataRows = allRows[2:]
	} else {
		names = allRows[0]
		dataRows = allRows[1:]
	}

	width := len(names)
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, Headers{}, &ValidationError{Reason: fmt.Sprintf("column %d has an empty name", i)}
		}
	}
	if len(dataRows) == 0 {
		return nil, Headers{}, &ValidationError{Reason: "source frame has zero data rows"}
	}
	if width > WideColumnWarnThreshold {
		slog.Warn("ingest: wide source frame", "column_count", width, "threshold", WideColumnWarnThreshold)
	}

	aligned := make([][]string, len(dataRows))
	for i, row := range dataRows {
		aligned[i] = alignRow(row, width)
	}

	headers := Headers{Names: names, Labels: labels}
	frame := &SourceFrame{
		Headers: headers,
		Rows:    aligned,
	}
	frame.Hints = ProfileColumns(frame)
	return frame, headers, nil
}

func alignRow(row []string, width int) []string {
	aligned := make([]string, width)
	for i := 0; i < width; i++ {
		if i < len(row) {
			aligned[i] = row[i]
		}
	}
	return aligned
}

func joinRecord(rec []string) []byte {
	var buf bytes.Buffer
	for _, f := range rec {
		buf.WriteString(f)
	}
	return buf.Bytes()
}
