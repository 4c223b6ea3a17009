package xpt

import (
	"encoding/binary"
	"fmt"

	"github.com/yourorg/sdtm-studio/internal/standards"
)

// namestrSize is the fixed length of a V5/V8 NAMESTR record.
const namestrSize = 140

// Column is one output variable in an XPT dataset.
type Column struct {
	Name   string
	Label  string
	Type   standards.VariableType
	Length int // bytes in the observation record; for Char this bounds string length
}

// Dataset is a fully-resolved table ready to be written as an XPT member.
type Dataset struct {
	Name    string
	Label   string
	Columns []Column
	Rows    [][]string // one cell per column, in Columns order
}

// asciiField renders s as an ASCII byte slice of exactly n bytes: truncated
// or space-padded, with non-ASCII runes replaced by '?'.
func asciiField(s string, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = ' '
	}
	i := 0
	for _, r := range s {
		if i >= n {
			break
		}
		if r > 127 {
			out[i] = '?'
		} else {
			out[i] = byte(r)
		}
		i++
	}
	return out
}

// encodeNamestr renders one 140-byte NAMESTR record for col at 1-based
// variable number varNum, placed at byte offset position within the
// observation record.
func encodeNamestr(col Column, varNum, position int) []byte {
	buf := make([]byte, namestrSize)

	ntype := uint16(2) // Char
	if col.Type == standards.Num {
		ntype = 1
	}
	binary.BigEndian.PutUint16(buf[0:2], ntype)
	// hash at 2:4 is always 0.
	binary.BigEndian.PutUint16(buf[4:6], uint16(col.Length))
	binary.BigEndian.PutUint16(buf[6:8], uint16(varNum))
	copy(buf[8:16], asciiField(col.Name, 8))
	copy(buf[16:56], asciiField(col.Label, 40))
	copy(buf[56:64], asciiField("", 8)) // format name, unused
	// format length/decimals/justification/padding at 64:72 stay 0.
	copy(buf[72:80], asciiField("", 8)) // informat name, unused
	// informat length/decimals at 80:84 stay 0.
	binary.BigEndian.PutUint32(buf[84:88], uint32(position))
	// reserved 88:140 stays 0.
	return buf
}

// decodeNamestr reads back a 140-byte NAMESTR record into a Column plus its
// recorded variable number and observation-byte position.
func decodeNamestr(buf []byte) (col Column, varNum, position int, err error) {
	if len(buf) != namestrSize {
		return Column{}, 0, 0, fmt.Errorf("xpt: namestr record must be %d bytes, got %d", namestrSize, len(buf))
	}
	ntype := binary.BigEndian.Uint16(buf[0:2])
	col.Type = standards.Char
	if ntype == 1 {
		col.Type = standards.Num
	}
	col.Length = int(binary.BigEndian.Uint16(buf[4:6]))
	varNum = int(binary.BigEndian.Uint16(buf[6:8]))
	col.Name = trimTrailingSpaces(string(buf[8:16]))
	col.Label = trimTrailingSpaces(string(buf[16:56]))
	position = int(binary.BigEndian.Uint32(buf[84:88]))
	return col, varNum, position, nil
}

func trimTrailingSpaces(s string) string {
	end := len(s)
	for end > 0 && s[end-1] == ' ' {
		end--
	}
	return s[:end]
}
