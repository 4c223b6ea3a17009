package export

import (
	"github.com/yourorg/sdtm-studio/internal/standards"
	"github.com/yourorg/sdtm-studio/internal/transform"
	"github.com/yourorg/sdtm-studio/internal/xpt"
)

const (
	defaultCharLength = 200
	numLength         = 8
)

// frameToXPTDataset resolves a transformed frame's columns against the
// domain's variable metadata and builds an xpt.Dataset ready to write.
// Variables with no declared Length fall back to a default so a thin CSV
// catalog entry still produces a valid transport file.
func frameToXPTDataset(name, label string, domain standards.Domain, frame *transform.DomainFrame) xpt.Dataset {
	ds := xpt.Dataset{Name: name, Label: label, Rows: frame.Rows}
	ds.Columns = make([]xpt.Column, len(frame.Columns))
	for i, colName := range frame.Columns {
		v, ok := domain.Variable(colName)
		col := xpt.Column{Name: colName}
		if ok {
			col.Label = v.Label
			col.Type = v.DataType
			col.Length = v.Length
		} else {
			col.Type = standards.Char
		}
		if col.Type == standards.Num {
			col.Length = numLength
		} else if col.Length <= 0 {
			col.Length = defaultCharLength
		}
		ds.Columns[i] = col
	}
	return ds
}
