package xpt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/yourorg/sdtm-studio/internal/standards"
)

const memberHeaderMarker = "HEADER RECORD*******MEMBER HEADER RECORD"
const dscrptrHeaderMarker = "HEADER RECORD*******DSCRPTR HEADER RECORD"
const namestrHeaderMarker = "HEADER RECORD*******NAMESTR HEADER RECORD"
const obsHeaderMarker = "HEADER RECORD*******OBS HEADER RECORD"

// encodeMemberHeader carries the NAMESTR record length (140 standard, 136
// on VAX/VMS); this codec only ever writes the standard form.
func encodeMemberHeader(namestrLen int) []byte {
	buf := headerLine(memberHeaderMarker)
	binary.BigEndian.PutUint32(buf[recordSize-4:], uint32(namestrLen))
	return buf
}

func decodeMemberHeader(buf []byte) (namestrLen int) {
	return int(binary.BigEndian.Uint32(buf[recordSize-4:]))
}

// encodeDscrptrHeader carries the per-observation record length so a
// reader can slice the observation section without re-deriving it from
// NAMESTR column widths.
func encodeDscrptrHeader(obsLen int) []byte {
	buf := headerLine(dscrptrHeaderMarker)
	binary.BigEndian.PutUint32(buf[recordSize-4:], uint32(obsLen))
	return buf
}

func decodeDscrptrHeader(buf []byte) (obsLen int) {
	return int(binary.BigEndian.Uint32(buf[recordSize-4:]))
}

// encodeNamestrHeader carries the variable count.
func encodeNamestrHeader(nvar int) []byte {
	buf := headerLine(namestrHeaderMarker)
	binary.BigEndian.PutUint32(buf[recordSize-4:], uint32(nvar))
	return buf
}

func decodeNamestrHeader(buf []byte) (nvar int) {
	return int(binary.BigEndian.Uint32(buf[recordSize-4:]))
}

// encodeMemberDataRecord carries the dataset name in its trailing 8 bytes.
func encodeMemberDataRecord(name string) []byte {
	buf := headerLine(fmt.Sprintf("%-8s SASDATA SAS     9.4     LINUX", name))
	copy(buf[recordSize-8:], asciiField(name, 8))
	return buf
}

func decodeMemberDataRecord(buf []byte) string {
	return trimTrailingSpaces(string(buf[recordSize-8:]))
}

// encodeMemberSecondRecord carries the dataset label in its trailing 40
// bytes.
func encodeMemberSecondRecord(label string) []byte {
	buf := headerLine(fmt.Sprintf("%-40s DATA", label))
	copy(buf[recordSize-40:], asciiField(label, 40))
	return buf
}

func decodeMemberSecondRecord(buf []byte) string {
	return trimTrailingSpaces(string(buf[recordSize-40:]))
}

// normalizeName trims, uppercases, and validates a dataset or column name:
// 1-8 ASCII characters.
func normalizeName(raw string) (string, error) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if name == "" || len(name) > 8 {
		return "", fmt.Errorf("xpt: name %q must be 1-8 characters", raw)
	}
	for _, r := range name {
		if r > 127 {
			return "", fmt.Errorf("xpt: name %q must be ASCII", raw)
		}
	}
	return name, nil
}

// WriteDataset writes ds to path as a V5/V8 SAS transport file, promoting
// to the V8 long-label section automatically when any label exceeds 40
// characters.
func WriteDataset(path string, ds Dataset) error {
	name, err := normalizeName(ds.Name)
	if err != nil {
		return err
	}

	cols := make([]Column, len(ds.Columns))
	seen := map[string]bool{}
	for i, c := range ds.Columns {
		colName, err := normalizeName(c.Name)
		if err != nil {
			return err
		}
		if seen[colName] {
			return fmt.Errorf("xpt: duplicate column name %q", colName)
		}
		seen[colName] = true
		if c.Length <= 0 {
			return fmt.Errorf("xpt: column %q has zero length", colName)
		}
		if c.Type == standards.Num && c.Length != 8 {
			return fmt.Errorf("xpt: numeric column %q must have length 8, got %d", colName, c.Length)
		}
		c.Name = colName
		cols[i] = c
	}
	for i, row := range ds.Rows {
		if len(row) != len(cols) {
			return fmt.Errorf("xpt: row %d has %d cells, want %d", i, len(row), len(cols))
		}
	}

	positions := make([]int, len(cols))
	offset := 0
	for i, c := range cols {
		positions[i] = offset
		offset += c.Length
	}
	obsLen := offset

	var buf bytes.Buffer
	buf.Write(headerLine("HEADER RECORD*******LIBRARY HEADER RECORD!!!!!!!000000000000000000000000000000"))
	buf.Write(headerLine("SAS     SAS     SASLIB  9.4     LINUX   "))
	buf.Write(headerLine("HEADER RECORD*******LIBRARY MODIFIED HEADER RECORD"))
	buf.Write(encodeMemberHeader(namestrSize))
	buf.Write(encodeDscrptrHeader(obsLen))
	buf.Write(encodeMemberDataRecord(name))
	buf.Write(encodeMemberSecondRecord(ds.Label))
	buf.Write(encodeNamestrHeader(len(cols)))

	var namestrs bytes.Buffer
	for i, c := range cols {
		namestrs.Write(encodeNamestr(c, i+1, positions[i]))
	}
	buf.Write(padToRecordBoundary(namestrs.Bytes()))

	longLabels := 0
	for _, c := range ds.Columns {
		if len(c.Label) > 40 {
			longLabels++
		}
	}
	if longLabels > 0 {
		buf.Write(encodeLabelV8Header(longLabels))
		var lbl bytes.Buffer
		for i, c := range cols {
			if len(ds.Columns[i].Label) > 40 {
				lbl.Write(encodeLabelEntry(i+1, c.Name, ds.Columns[i].Label))
			}
		}
		buf.Write(padToRecordBoundary(lbl.Bytes()))
	}

	buf.Write(headerLine(obsHeaderMarker))

	var obsData bytes.Buffer
	for _, row := range ds.Rows {
		rec, err := encodeObservation(cols, row)
		if err != nil {
			return err
		}
		obsData.Write(rec)
	}
	buf.Write(padToRecordBoundary(obsData.Bytes()))

	return os.WriteFile(path, buf.Bytes(), 0o644)
}
