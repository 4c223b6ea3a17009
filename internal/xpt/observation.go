package xpt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourorg/sdtm-studio/internal/standards"
)

// encodeNumericCell renders a single Num cell. An empty string or "." is
// the standard missing value; ".A".."._" select a special missing value;
// anything else must parse as a float64.
func encodeNumericCell(cell string) ([8]byte, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" || trimmed == "." {
		return EncodeMissing(StdMissing), nil
	}
	if len(trimmed) == 2 && trimmed[0] == '.' {
		c := trimmed[1]
		if c == '_' || (c >= 'A' && c <= 'Z') {
			return EncodeMissing(c), nil
		}
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return [8]byte{}, fmt.Errorf("xpt: invalid numeric value %q: %w", cell, err)
	}
	return IEEEToIBM(f), nil
}

// decodeNumericCell is encodeNumericCell's inverse.
func decodeNumericCell(b [8]byte) string {
	if code, ok := DecodeMissing(b); ok {
		if code == StdMissing {
			return ""
		}
		return "." + string(code)
	}
	f := IBMToIEEE(b)
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// encodeObservation renders one row as a single observation record: each
// Char cell space-padded/truncated to its column length, each Num cell an
// 8-byte IBM float.
func encodeObservation(cols []Column, row []string) ([]byte, error) {
	out := make([]byte, 0, observationLength(cols))
	for i, c := range cols {
		cell := row[i]
		if c.Type == standards.Num {
			bs, err := encodeNumericCell(cell)
			if err != nil {
				return nil, err
			}
			out = append(out, bs[:]...)
		} else {
			out = append(out, asciiField(cell, c.Length)...)
		}
	}
	return out, nil
}

// decodeObservation is encodeObservation's inverse. trimStrings trims
// trailing spaces from Char cells (default true).
func decodeObservation(cols []Column, buf []byte, trimStrings bool) []string {
	row := make([]string, len(cols))
	offset := 0
	for i, c := range cols {
		if c.Type == standards.Num {
			var b [8]byte
			copy(b[:], buf[offset:offset+8])
			row[i] = decodeNumericCell(b)
			offset += 8
		} else {
			cell := string(buf[offset : offset+c.Length])
			if trimStrings {
				cell = trimTrailingSpaces(cell)
			}
			row[i] = cell
			offset += c.Length
		}
	}
	return row
}

func observationLength(cols []Column) int {
	n := 0
	for _, c := range cols {
		n += c.Length
	}
	return n
}

func isAllSpaces(b []byte) bool {
	for _, x := range b {
		if x != ' ' {
			return false
		}
	}
	return true
}
