package xpt

import (
	"fmt"
	"os"
)

// fixedHeaderCount is the number of 80-byte records before the NAMESTR
// section: library prefix, library real, library modified, member header,
// DSCRPTR header, member data record, member second record, NAMESTR
// header.
const fixedHeaderCount = 8

// ReadDataset parses an XPT file written by WriteDataset. trimStrings
// trims trailing spaces from Char cells (default true).
func ReadDataset(path string, trimStrings bool) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("xpt: read %s: %w", path, err)
	}
	return parseDataset(data, trimStrings)
}

func parseDataset(data []byte, trimStrings bool) (*Dataset, error) {
	offset := 0
	nextRecord := func() ([]byte, error) {
		if offset+recordSize > len(data) {
			return nil, fmt.Errorf("xpt: truncated file at offset %d", offset)
		}
		rec := data[offset : offset+recordSize]
		offset += recordSize
		return rec, nil
	}

	var namestrLen, obsLen, nvar int
	var dsName, dsLabel string
	for i := 0; i < fixedHeaderCount; i++ {
		rec, err := nextRecord()
		if err != nil {
			return nil, err
		}
		switch i {
		case 3:
			namestrLen = decodeMemberHeader(rec)
		case 4:
			obsLen = decodeDscrptrHeader(rec)
		case 5:
			dsName = decodeMemberDataRecord(rec)
		case 6:
			dsLabel = decodeMemberSecondRecord(rec)
		case 7:
			nvar = decodeNamestrHeader(rec)
		}
	}
	if namestrLen != namestrSize {
		return nil, fmt.Errorf("xpt: unsupported NAMESTR length %d", namestrLen)
	}

	namestrBytes := nvar * namestrSize
	namestrPadded := padLen(namestrBytes)
	if offset+namestrPadded > len(data) {
		return nil, fmt.Errorf("xpt: truncated NAMESTR section")
	}
	type colEntry struct {
		col      Column
		varNum   int
		position int
	}
	entries := make([]colEntry, nvar)
	for i := 0; i < nvar; i++ {
		start := offset + i*namestrSize
		col, varNum, position, err := decodeNamestr(data[start : start+namestrSize])
		if err != nil {
			return nil, err
		}
		entries[i] = colEntry{col, varNum, position}
	}
	offset += namestrPadded

	labels := map[int]string{}
	if offset+recordSize <= len(data) {
		if count, ok := decodeLabelV8Header(data[offset : offset+recordSize]); ok {
			offset += recordSize
			lblStart := offset
			consumed := 0
			for i := 0; i < count; i++ {
				varNum, _, label, n := decodeLabelEntry(data[lblStart+consumed:])
				labels[varNum] = label
				consumed += n
			}
			offset += padLen(consumed)
		}
	}

	// OBS header record.
	if _, err := nextRecord(); err != nil {
		return nil, err
	}

	cols := make([]Column, nvar)
	for i, e := range entries {
		col := e.col
		if lbl, ok := labels[e.varNum]; ok {
			col.Label = lbl
		}
		cols[i] = col
	}

	obsData := data[offset:]
	var rows [][]string
	if obsLen > 0 {
		nRows := len(obsData) / obsLen
		for nRows > 0 {
			start := (nRows - 1) * obsLen
			if !isAllSpaces(obsData[start : start+obsLen]) {
				break
			}
			nRows--
		}
		rows = make([][]string, nRows)
		for i := 0; i < nRows; i++ {
			start := i * obsLen
			rows[i] = decodeObservation(cols, obsData[start:start+obsLen], trimStrings)
		}
	}

	return &Dataset{Name: dsName, Label: dsLabel, Columns: cols, Rows: rows}, nil
}

func padLen(n int) int {
	rem := n % recordSize
	if rem == 0 {
		return n
	}
	return n + (recordSize - rem)
}
