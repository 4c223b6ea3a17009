package pivot

import (
	"regexp"
	"strings"

	"github.com/yourorg/sdtm-studio/internal/ingest"
)

var (
	reVSOrres  = regexp.MustCompile(`^ORRES_(.+)$`)
	reVSOrresU = regexp.MustCompile(`^ORRESU_(.+)$`)
	reVSPos    = regexp.MustCompile(`^POS_(.+)$`)
	reVSDate   = regexp.MustCompile(`^.*(DAT|DATE)$`)
	reVSTime   = regexp.MustCompile(`^.*(TIM|TIME)$`)
)

// bpSharedKey is the literal group whose unit/position columns back-fill
// any other group lacking its own: systolic/diastolic blood-pressure
// readings commonly share one unit/position column pair.
const bpSharedKey = "BP"

type vsGroup struct {
	key       string
	resultCol string
	unitCol   string
	posCol    string
	codeCol   string
	label     string
}

// DetectVS implements the VS wide-pivot. ok is false when no
// ORRES_<TEST>-shaped header is present, meaning the source is already
// long-shaped and the caller should skip pivoting.
func DetectVS(src *ingest.SourceFrame) (*Result, bool) {
	groups := map[string]*vsGroup{}
	consumed := map[string]bool{}

	groupFor := func(key string) *vsGroup {
		g, ok := groups[key]
		if !ok {
			g = &vsGroup{key: key}
			groups[key] = g
		}
		return g
	}

	for i, h := range src.Headers.Names {
		upper := strings.ToUpper(strings.TrimSpace(h))

		if m := reVSOrres.FindStringSubmatch(upper); m != nil {
			label := src.Headers.Label(i)
			assignVSColumn(groupFor, m[1], h, func(g *vsGroup, col string) {
				g.resultCol = col
				g.label = label
			})
			consumed[h] = true
			continue
		}
		if m := reVSOrresU.FindStringSubmatch(upper); m != nil {
			assignVSColumn(groupFor, m[1], h, func(g *vsGroup, col string) { g.unitCol = col })
			consumed[h] = true
			continue
		}
		if m := reVSPos.FindStringSubmatch(upper); m != nil {
			assignVSColumn(groupFor, m[1], h, func(g *vsGroup, col string) { g.posCol = col })
			consumed[h] = true
			continue
		}
	}

	if len(groups) == 0 {
		return nil, false
	}

	dateCol, timeCol := findVSDateTime(src, consumed)
	if dateCol != "" {
		consumed[dateCol] = true
	}
	if timeCol != "" {
		consumed[timeCol] = true
	}

	passthrough := passthroughColumns(src, consumed)
	outNames := append(append([]string{}, passthrough...),
		"VSTESTCD", "VSTEST", "VSORRES", "VSORRESU", "VSPOS", "VSDTC")

	// Only groups with their own ORRES_<TEST> column are real tests; a
	// group that only supplied ORRESU_<TEST>/POS_<TEST> (like the shared
	// "BP" bucket) exists purely as a fallback source, not its own row.
	sortedKeys := sortedGroupKeys(groups)
	testKeys := make([]string, 0, len(sortedKeys))
	for _, k := range sortedKeys {
		if groups[k].resultCol != "" {
			testKeys = append(testKeys, k)
		}
	}
	bp := groups[bpSharedKey]

	var rows [][]string
	for _, row := range src.Rows {
		for _, key := range testKeys {
			g := groups[key]
			orres := cellOf(src, row, g.resultCol)
			orresu := cellOf(src, row, g.unitCol)
			pos := cellOf(src, row, g.posCol)
			if orresu == "" && g.unitCol == "" && bp != nil && key != bpSharedKey {
				orresu = cellOf(src, row, bp.unitCol)
			}
			if pos == "" && g.posCol == "" && bp != nil && key != bpSharedKey {
				pos = cellOf(src, row, bp.posCol)
			}
			if orres == "" && orresu == "" && pos == "" {
				continue
			}

			testcd := ""
			if g.codeCol != "" {
				testcd = cellOf(src, row, g.codeCol)
			}
			if testcd == "" {
				testcd = key
			}
			testcd = SanitizeTestCD(testcd, "VS")

			test := g.label
			if test == "" {
				test = key
			}

			dtc := combineVSDateTime(cellOf(src, row, dateCol), cellOf(src, row, timeCol))

			outRow := make([]string, 0, len(outNames))
			for _, col := range passthrough {
				outRow = append(outRow, cellOf(src, row, col))
			}
			outRow = append(outRow, testcd, test, orres, orresu, pos, dtc)
			rows = append(rows, outRow)
		}
	}

	result := &Result{
		Frame:           &ingest.SourceFrame{Headers: ingest.Headers{Names: outNames}, Rows: rows},
		ConsumedColumns: consumedList(consumed),
	}
	return result, true
}

func assignVSColumn(groupFor func(string) *vsGroup, test, col string, assign func(*vsGroup, string)) {
	key := test
	if strings.HasSuffix(test, "CD") && len(test) > 2 {
		key = test[:len(test)-2]
		groupFor(key).codeCol = col
		return
	}
	assign(groupFor(key), col)
}

func findVSDateTime(src *ingest.SourceFrame, consumed map[string]bool) (dateCol, timeCol string) {
	var dateCands, timeCands []string
	for _, h := range src.Headers.Names {
		if consumed[h] {
			continue
		}
		upper := strings.ToUpper(strings.TrimSpace(h))
		if reVSDate.MatchString(upper) {
			dateCands = append(dateCands, h)
		} else if reVSTime.MatchString(upper) {
			timeCands = append(timeCands, h)
		}
	}
	return pickPreferVS(dateCands), pickPreferVS(timeCands)
}

func pickPreferVS(cands []string) string {
	if len(cands) == 0 {
		return ""
	}
	for _, c := range cands {
		if strings.Contains(strings.ToUpper(c), "VS") {
			return c
		}
	}
	return cands[0]
}

func combineVSDateTime(date, timeVal string) string {
	if date == "" {
		return ""
	}
	if strings.ContainsAny(date, "Tt") || timeVal == "" {
		return date
	}
	return date + "T" + timeVal
}

func cellOf(src *ingest.SourceFrame, row []string, col string) string {
	if col == "" {
		return ""
	}
	idx := src.ColumnIndex(col)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func sortedGroupKeys(groups map[string]*vsGroup) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func consumedList(consumed map[string]bool) []string {
	out := make([]string, 0, len(consumed))
	for c := range consumed {
		out = append(out, c)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
