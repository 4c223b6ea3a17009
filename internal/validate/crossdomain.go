package validate

import (
	"fmt"

	"github.com/yourorg/sdtm-studio/internal/transform"
)

// SuppRow is one row of a generated SUPP-- frame.
type SuppRow struct {
	StudyID  string
	RDomain  string
	USubjid  string
	IDVar    string
	IDVarVal string
	QNAM     string
	QLabel   string
	QVal     string
	QOrig    string
	QEval    string
}

// RelRecRow is one row of a RELREC linkage dataset.
type RelRecRow struct {
	RDomain  string
	USubjid  string
	IDVar    string
	IDVarVal string
}

// CrossDomainInput is everything the cross-domain pass needs: every
// produced domain frame, the split-dataset -> base-domain map, every
// generated SUPP frame, and RELREC linkage rows.
type CrossDomainInput struct {
	DomainFrames map[string]*transform.DomainFrame // domain code -> frame, includes split datasets
	SplitToBase  map[string]string                 // split domain code -> base domain code, e.g. "AE1" -> "AE"
	SuppRows     map[string][]SuppRow              // base domain code -> its SUPP rows
	RelRec       []RelRecRow
	DMUsubjids   map[string]bool // every USUBJID present in DM; not read by RunCrossDomain (CheckUsubjidNotInDm takes the set directly)
}

// RunCrossDomain runs every cross-domain consistency check: *SEQ uniqueness
// across split datasets, SUPP QNAM uniqueness, non-empty QVAL, and RELREC
// referential integrity.
func RunCrossDomain(in CrossDomainInput) *Report {
	report := &Report{}
	report.Issues = append(report.Issues, checkSeqUniqueness(in)...)
	report.Issues = append(report.Issues, checkSuppQnamUniqueness(in)...)
	report.Issues = append(report.Issues, checkQvalNonEmpty(in)...)
	report.Issues = append(report.Issues, checkRelRecIntegrity(in)...)
	return report
}

func checkSeqUniqueness(in CrossDomainInput) []Issue {
	// Group split domains by their base domain.
	splitsByBase := map[string][]string{}
	for split, base := range in.SplitToBase {
		splitsByBase[base] = append(splitsByBase[base], split)
	}

	var issues []Issue
	for base, splits := range splitsByBase {
		seqVar := base + "SEQ"
		seen := map[string]bool{}
		dup := 0

		domains := append(append([]string{}, splits...), base)
		for _, d := range domains {
			frame, ok := in.DomainFrames[d]
			if !ok {
				continue
			}
			usubjidIdx, seqIdx := -1, -1
			for i, c := range frame.Columns {
				switch c {
				case "USUBJID":
					usubjidIdx = i
				case seqVar:
					seqIdx = i
				}
			}
			if usubjidIdx < 0 || seqIdx < 0 {
				continue
			}
			for _, row := range frame.Rows {
				key := row[usubjidIdx] + "|" + row[seqIdx]
				if seen[key] {
					dup++
					continue
				}
				seen[key] = true
			}
		}
		if dup > 0 {
			issues = append(issues, Issue{
				Variant: VariantDuplicateSequence, Severity: SeverityError,
				Variable: seqVar, Domain: base, DuplicateCount: dup,
			})
		}
	}
	return issues
}

func checkSuppQnamUniqueness(in CrossDomainInput) []Issue {
	var issues []Issue
	for domain, rows := range in.SuppRows {
		seen := map[string]bool{}
		dup := 0
		for _, r := range rows {
			key := fmt.Sprintf("%s|%s|%s|%s|%s|%s", r.StudyID, r.RDomain, r.USubjid, r.IDVar, r.IDVarVal, r.QNAM)
			if seen[key] {
				dup++
				continue
			}
			seen[key] = true
		}
		if dup > 0 {
			issues = append(issues, Issue{
				Variant: VariantDuplicateSequence, Severity: SeverityError,
				Variable: "QNAM", Domain: domain, DuplicateCount: dup,
			})
		}
	}
	return issues
}

func checkQvalNonEmpty(in CrossDomainInput) []Issue {
	var issues []Issue
	for domain, rows := range in.SuppRows {
		empty := 0
		for _, r := range rows {
			if r.QVal == "" {
				empty++
			}
		}
		if empty > 0 {
			issues = append(issues, Issue{
				Variant: VariantRequiredEmpty, Severity: SeverityError,
				Variable: "QVAL", Domain: domain, NullCount: empty,
			})
		}
	}
	return issues
}

func checkRelRecIntegrity(in CrossDomainInput) []Issue {
	var missing []string
	missingCount := 0

	for _, rec := range in.RelRec {
		frame, ok := in.DomainFrames[rec.RDomain]
		if !ok {
			missingCount++
			missing = append(missing, rec.IDVarVal)
			continue
		}
		usubjidIdx, idVarIdx := -1, -1
		for i, c := range frame.Columns {
			switch c {
			case "USUBJID":
				usubjidIdx = i
			case rec.IDVar:
				idVarIdx = i
			}
		}
		if usubjidIdx < 0 || idVarIdx < 0 {
			missingCount++
			missing = append(missing, rec.IDVarVal)
			continue
		}
		found := false
		for _, row := range frame.Rows {
			if row[usubjidIdx] == rec.USubjid && row[idVarIdx] == rec.IDVarVal {
				found = true
				break
			}
		}
		if !found {
			missingCount++
			missing = append(missing, rec.IDVarVal)
		}
	}

	if missingCount == 0 {
		return nil
	}
	return []Issue{{
		Variant: VariantParentNotFound, Severity: SeverityError,
		Variable: "RELREC", ParentDomain: "", MissingCount: missingCount, Samples: takeSamples(missing),
	}}
}

// CheckUsubjidNotInDm reports every USUBJID appearing in frame but absent
// from the DM domain's own USUBJID set.
func CheckUsubjidNotInDm(domain string, frame *transform.DomainFrame, dmUsubjids map[string]bool) *Report {
	usubjidIdx := -1
	for i, c := range frame.Columns {
		if c == "USUBJID" {
			usubjidIdx = i
		}
	}
	if usubjidIdx < 0 {
		return &Report{}
	}

	var missing []string
	for _, row := range frame.Rows {
		id := row[usubjidIdx]
		if id != "" && !dmUsubjids[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return &Report{}
	}
	return &Report{Issues: []Issue{{
		Variant: VariantUsubjidNotInDm, Severity: SeverityError,
		Domain: domain, MissingCount: len(missing), Samples: takeSamples(missing),
	}}}
}
