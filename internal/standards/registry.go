package standards

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/yourorg/sdtm-studio/internal/ct"
)

// Embedded CDISC SDTM IG v3.4 and Controlled Terminology resources. These are
// simplified, representative fixtures (not the full published standard) —
// the registry's job is to parse the *shape* CDISC publishes its CSVs in, not
// to ship the real multi-megabyte NCI/CDISC release inside this binary.
//
//go:embed testdata/datasets.csv testdata/variables.csv testdata/ct.csv
var embeddedFS embed.FS

// LoadSDTMIG parses the embedded Datasets/Variables tables into a sorted
// slice of Domain.
func LoadSDTMIG() ([]Domain, error) {
	datasetsFile, err := embeddedFS.Open("testdata/datasets.csv")
	if err != nil {
		return nil, fmt.Errorf("standards: open datasets.csv: %w", err)
	}
	defer datasetsFile.Close()

	type datasetRow struct {
		class     Class
		structure string
		label     string
	}
	datasets := make(map[string]datasetRow)
	var datasetOrder []string

	dr := csv.NewReader(datasetsFile)
	header, err := dr.Read()
	if err != nil {
		return nil, fmt.Errorf("standards: read datasets.csv header: %w", err)
	}
	col := indexHeader(header)
	for {
		rec, err := dr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("standards: read datasets.csv: %w", err)
		}
		name := strings.TrimSpace(rec[col["Dataset Name"]])
		if name == "" {
			continue
		}
		if _, exists := datasets[name]; !exists {
			datasetOrder = append(datasetOrder, name)
		}
		datasets[name] = datasetRow{
			class:     Class(strings.TrimSpace(rec[col["Class"]])),
			structure: strings.TrimSpace(rec[col["Structure"]]),
			label:     strings.TrimSpace(rec[col["Label"]]),
		}
	}

	variablesFile, err := embeddedFS.Open("testdata/variables.csv")
	if err != nil {
		return nil, fmt.Errorf("standards: open variables.csv: %w", err)
	}
	defer variablesFile.Close()

	vr := csv.NewReader(variablesFile)
	vheader, err := vr.Read()
	if err != nil {
		return nil, fmt.Errorf("standards: read variables.csv header: %w", err)
	}
	vcol := indexHeader(vheader)

	varsByDataset := make(map[string][]Variable)
	orderCounter := make(map[string]int)
	for {
		rec, err := vr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("standards: read variables.csv: %w", err)
		}
		dataset := strings.TrimSpace(rec[vcol["Dataset Name"]])
		if dataset == "" {
			continue
		}
		length, _ := strconv.Atoi(strings.TrimSpace(valueAt(rec, vcol, "Length")))
		v := Variable{
			Name:                 strings.TrimSpace(rec[vcol["Variable Name"]]),
			Label:                strings.TrimSpace(valueAt(rec, vcol, "Label")),
			DataType:             VariableType(strings.TrimSpace(rec[vcol["Type"]])),
			Role:                 Role(strings.TrimSpace(valueAt(rec, vcol, "Role"))),
			Core:                 Core(strings.TrimSpace(rec[vcol["Core"]])),
			CodelistCode:         strings.TrimSpace(valueAt(rec, vcol, "Codelist Code")),
			DescribedValueDomain: strings.TrimSpace(valueAt(rec, vcol, "Described Value Domain")),
			Length:               length,
			Order:                orderCounter[dataset],
		}
		orderCounter[dataset]++
		varsByDataset[dataset] = append(varsByDataset[dataset], v)
	}

	domains := make([]Domain, 0, len(datasetOrder))
	for _, name := range datasetOrder {
		meta := datasets[name]
		domains = append(domains, Domain{
			Code:      name,
			Label:     meta.label,
			Class:     meta.class,
			Structure: meta.structure,
			Dataset:   strings.ToLower(name),
			Variables: varsByDataset[name],
		})
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i].Code < domains[j].Code })
	return domains, nil
}

// CTCatalogLabel is the label under which the embedded CT release is
// registered in the ct.Registry returned by LoadCT.
const CTCatalogLabel = "SDTM CT"

// LoadCT parses the embedded Controlled Terminology CSV into a ct.Registry
// carrying a single catalog labeled CTCatalogLabel.
func LoadCT() (*ct.Registry, error) {
	f, err := embeddedFS.Open("testdata/ct.csv")
	if err != nil {
		return nil, fmt.Errorf("standards: open ct.csv: %w", err)
	}
	defer f.Close()

	catalog, err := ct.ParseCatalog(f, CTCatalogLabel)
	if err != nil {
		return nil, fmt.Errorf("standards: parse ct.csv: %w", err)
	}

	reg := ct.NewRegistry()
	reg.Add(catalog)
	return reg, nil
}

func indexHeader(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, h := range header {
		m[strings.TrimSpace(h)] = i
	}
	return m
}

func valueAt(rec []string, col map[string]int, name string) string {
	idx, ok := col[name]
	if !ok || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}
