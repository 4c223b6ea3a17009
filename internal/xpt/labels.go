package xpt

import "encoding/binary"

// labelV8Marker identifies the optional long-label header record written
// between the NAMESTR section and OBS header when any label exceeds the
// 40-byte NAMESTR label field.
const labelV8Marker = "HEADER RECORD*******LABELV8 HEADER RECORD"

// encodeLabelV8Header renders the LABELV8 section's own header record,
// carrying the number of long-label entries that follow in its trailing
// 4 bytes.
func encodeLabelV8Header(count int) []byte {
	buf := headerLine(labelV8Marker)
	binary.BigEndian.PutUint32(buf[recordSize-4:], uint32(count))
	return buf
}

func decodeLabelV8Header(buf []byte) (count int, ok bool) {
	text := trimTrailingSpaces(string(buf[:len(labelV8Marker)]))
	if text != labelV8Marker {
		return 0, false
	}
	return int(binary.BigEndian.Uint32(buf[recordSize-4:])), true
}

// encodeLabelEntry renders one long-label entry: variable number, name
// length, label length, then the raw name and label bytes.
func encodeLabelEntry(varNum int, name, label string) []byte {
	head := make([]byte, 6)
	binary.BigEndian.PutUint16(head[0:2], uint16(varNum))
	binary.BigEndian.PutUint16(head[2:4], uint16(len(name)))
	binary.BigEndian.PutUint16(head[4:6], uint16(len(label)))
	out := append(head, []byte(name)...)
	out = append(out, []byte(label)...)
	return out
}

// decodeLabelEntry reads one long-label entry starting at buf[0], and
// returns the number of bytes consumed.
func decodeLabelEntry(buf []byte) (varNum int, name, label string, consumed int) {
	varNum = int(binary.BigEndian.Uint16(buf[0:2]))
	nameLen := int(binary.BigEndian.Uint16(buf[2:4]))
	labelLen := int(binary.BigEndian.Uint16(buf[4:6]))
	name = string(buf[6 : 6+nameLen])
	label = string(buf[6+nameLen : 6+nameLen+labelLen])
	consumed = 6 + nameLen + labelLen
	return
}
