// Command sdtmctl exposes the ingest/map/transform/validate/export
// pipeline for scripted, non-interactive use via flag subcommands. Each
// subcommand operates on a study folder given via --study; state that
// would otherwise live in an open study.Study session (raw source,
// mapping, cached preview) is persisted under that folder between
// invocations.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourorg/sdtm-studio/internal/config"
	"github.com/yourorg/sdtm-studio/internal/export"
	"github.com/yourorg/sdtm-studio/internal/ingest"
	"github.com/yourorg/sdtm-studio/internal/mapping"
	"github.com/yourorg/sdtm-studio/internal/provenance"
	"github.com/yourorg/sdtm-studio/internal/standards"
	"github.com/yourorg/sdtm-studio/internal/study"
	"github.com/yourorg/sdtm-studio/internal/transform"
	"github.com/yourorg/sdtm-studio/internal/validate"
)

const usage = `sdtmctl - SDTM Studio command line pipeline

Usage:
  sdtmctl <command> [options]

Commands:
  ingest      Read a source CSV into a study's raw data folder
  map         Suggest, accept, clear, or manually set one domain's mapping
  transform   Rebuild a domain's cached preview frame from its mapping
  validate    Run the validator against a domain's cached preview
  export      Write XPT (+ SUPP, Define-XML placeholder) for one or more domains
  version     Print version information

Run 'sdtmctl <command> -h' for command-specific options.
`

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "ingest":
		runIngest(os.Args[2:])
	case "map":
		runMap(os.Args[2:])
	case "transform":
		runTransform(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "export":
		runExport(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("sdtmctl version %s\n", version)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		fmt.Print(usage)
		os.Exit(1)
	}
}

// studyPaths centralizes the on-disk layout under a study folder: raw
// source CSVs, saved mapping configs, and cached preview frames.
type studyPaths struct{ root string }

func newStudyPaths(root string) studyPaths { return studyPaths{root: root} }

func (p studyPaths) rawDir() string     { return filepath.Join(p.root, "raw") }
func (p studyPaths) previewDir() string { return filepath.Join(p.root, "preview") }
func (p studyPaths) mappingDir() string { return filepath.Join(p.root, "mappings") }

func (p studyPaths) rawCSV(domain string) string {
	return filepath.Join(p.rawDir(), strings.ToLower(domain)+".csv")
}

func (p studyPaths) rawMeta(domain string) string {
	return filepath.Join(p.rawDir(), strings.ToLower(domain)+".meta.json")
}

func (p studyPaths) previewCSV(domain string) string {
	return filepath.Join(p.previewDir(), strings.ToLower(domain)+".csv")
}

type rawMeta struct {
	HeaderRows int `json:"header_rows"`
}

func loadCatalog() (map[string]standards.Domain, error) {
	domains, err := standards.LoadSDTMIG()
	if err != nil {
		return nil, fmt.Errorf("load SDTM IG catalog: %w", err)
	}
	out := make(map[string]standards.Domain, len(domains))
	for _, d := range domains {
		out[d.Code] = d
	}
	return out, nil
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func runIngest(args []string) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	studyDir := fs.String("study", "", "Study folder (required)")
	domain := fs.String("domain", "", "Domain code, e.g. VS (required)")
	source := fs.String("source", "", "Source CSV path (required)")
	headerRows := fs.Int("header-rows", 1, "Number of header rows (1 or 2)")
	_ = fs.Parse(args)

	if *studyDir == "" || *domain == "" || *source == "" {
		fail("ingest: --study, --domain, and --source are required")
	}

	frame, _, err := ingest.ReadCSVTable(*source, *headerRows)
	if err != nil {
		fail("ingest: %v", err)
	}

	p := newStudyPaths(*studyDir)
	if err := os.MkdirAll(p.rawDir(), 0o755); err != nil {
		fail("ingest: create raw dir: %v", err)
	}
	if err := writeSourceCSV(p.rawCSV(*domain), frame); err != nil {
		fail("ingest: write raw copy: %v", err)
	}
	metaBytes, _ := json.Marshal(rawMeta{HeaderRows: *headerRows})
	if err := os.WriteFile(p.rawMeta(*domain), metaBytes, 0o644); err != nil {
		fail("ingest: write meta: %v", err)
	}

	fmt.Printf("ingested %d rows, %d columns into %s\n", frame.RowCount(), len(frame.Headers.Names), p.rawCSV(*domain))
}

func runMap(args []string) {
	fs := flag.NewFlagSet("map", flag.ExitOnError)
	studyDir := fs.String("study", "", "Study folder (required)")
	studyID := fs.String("study-id", "", "Study identifier (required)")
	domain := fs.String("domain", "", "Domain code (required)")
	action := fs.String("action", "suggest", "suggest|accept|clear|manual")
	variable := fs.String("variable", "", "Target variable (required for accept/clear/manual)")
	column := fs.String("column", "", "Source column (required for manual)")
	minConfidence := fs.Float64("min-confidence", mapping.MinConfidence, "Suggestion floor")
	_ = fs.Parse(args)

	if *studyDir == "" || *studyID == "" || *domain == "" {
		fail("map: --study, --study-id, and --domain are required")
	}

	catalog, err := loadCatalog()
	if err != nil {
		fail("map: %v", err)
	}
	d, ok := catalog[*domain]
	if !ok {
		fail("map: unknown domain %s", *domain)
	}

	p := newStudyPaths(*studyDir)
	frame, err := readRawSource(p, *domain)
	if err != nil {
		fail("map: %v", err)
	}

	repo, err := mapping.NewRepository(p.mappingDir(), func() string { return time.Now().UTC().Format(time.RFC3339) })
	if err != nil {
		fail("map: open mapping repository: %v", err)
	}
	stored, err := repo.Load(*studyID, *domain)
	if err != nil {
		fail("map: load mapping: %v", err)
	}
	cfg := mapping.NewConfig()
	if stored != nil {
		cfg.Assignments = stored.Config
	}

	switch *action {
	case "suggest":
		cfg = mapping.SuggestAll(d, frame, *minConfidence)
	case "accept":
		if *variable == "" {
			fail("map: --variable required for accept")
		}
		if err := cfg.Accept(*variable); err != nil {
			fail("map: %v", err)
		}
	case "clear":
		if *variable == "" {
			fail("map: --variable required for clear")
		}
		cfg.Clear(*variable)
	case "manual":
		if *variable == "" || *column == "" {
			fail("map: --variable and --column required for manual")
		}
		cfg.SetManual(*variable, *column)
	default:
		fail("map: unknown --action %s", *action)
	}

	if err := repo.Save(*studyID, *domain, cfg, "cli "+*action); err != nil {
		fail("map: save mapping: %v", err)
	}
	fmt.Printf("mapping for %s/%s updated (%s)\n", *studyID, *domain, *action)
}

func runTransform(args []string) {
	fs := flag.NewFlagSet("transform", flag.ExitOnError)
	studyDir := fs.String("study", "", "Study folder (required)")
	studyID := fs.String("study-id", "", "Study identifier (required)")
	domain := fs.String("domain", "", "Domain code (required)")
	referenceDate := fs.String("reference-date", "", "Study-level reference date for *DY derivation")
	requireExplicit := fs.Bool("require-explicit-mapping", config.DefaultRequireExplicitMapping, "Only consume Accepted/Manual assignments")
	_ = fs.Parse(args)

	if *studyDir == "" || *studyID == "" || *domain == "" {
		fail("transform: --study, --study-id, and --domain are required")
	}

	catalog, err := loadCatalog()
	if err != nil {
		fail("transform: %v", err)
	}
	d, ok := catalog[*domain]
	if !ok {
		fail("transform: unknown domain %s", *domain)
	}
	ctReg, err := standards.LoadCT()
	if err != nil {
		fail("transform: %v", err)
	}

	p := newStudyPaths(*studyDir)
	frame, err := readRawSource(p, *domain)
	if err != nil {
		fail("transform: %v", err)
	}
	cfg, err := loadMappingConfig(p, *studyID, *domain)
	if err != nil {
		fail("transform: %v", err)
	}

	ctx := transform.Context{
		StudyID:                *studyID,
		Domain:                 d,
		ReferenceDate:          *referenceDate,
		CT:                     ctReg,
		Mapping:                cfg,
		RequireExplicitMapping: *requireExplicit,
	}
	out, issues, err := transform.Run(ctx, frame)
	if err != nil {
		fail("transform: %v", err)
	}

	if err := os.MkdirAll(p.previewDir(), 0o755); err != nil {
		fail("transform: create preview dir: %v", err)
	}
	if err := writePreviewCSV(p.previewCSV(*domain), out); err != nil {
		fail("transform: write preview: %v", err)
	}

	log := &provenance.Log{}
	for _, rule := range transform.InferDomainRules(d) {
		sourceCol := ""
		if a, ok := cfg.Assignments[rule.Variable]; ok {
			sourceCol = a.SourceColumn
		}
		log.Add(provenance.FromRule(rule, sourceCol))
	}
	provBytes, _ := json.MarshalIndent(log.Records, "", "  ")
	if err := os.WriteFile(p.previewCSV(*domain)+".provenance.json", provBytes, 0o644); err != nil {
		fail("transform: write provenance: %v", err)
	}

	fmt.Printf("transformed %s into %d rows, %d columns (%d issues)\n", *domain, len(out.Rows), len(out.Columns), len(issues))
	for _, issue := range issues {
		fmt.Printf("  issue: %s row %d: %s\n", issue.Variable, issue.RowIndex, issue.Message)
	}
}

func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	studyDir := fs.String("study", "", "Study folder (required)")
	domain := fs.String("domain", "", "Domain code (required)")
	xlsxOut := fs.String("xlsx", "", "Optional path to write a Pinnacle-21-style Excel report")
	_ = fs.Parse(args)

	if *studyDir == "" || *domain == "" {
		fail("validate: --study and --domain are required")
	}

	catalog, err := loadCatalog()
	if err != nil {
		fail("validate: %v", err)
	}
	d, ok := catalog[*domain]
	if !ok {
		fail("validate: unknown domain %s", *domain)
	}
	ctReg, err := standards.LoadCT()
	if err != nil {
		fail("validate: %v", err)
	}

	p := newStudyPaths(*studyDir)
	frame, err := readPreviewCSV(p.previewCSV(*domain))
	if err != nil {
		fail("validate: %v (did you run transform first?)", err)
	}

	report := validate.RunDomain(d, frame, ctReg, nil)
	for _, issue := range report.Issues {
		fmt.Printf("[%s] %s: %s\n", issue.Severity, issue.Variant, issue.Variable)
	}
	fmt.Printf("%d issues, has_errors=%v\n", len(report.Issues), report.HasErrors())

	if *xlsxOut != "" {
		if err := validate.WriteXLSX(report, *xlsxOut); err != nil {
			fail("validate: write xlsx: %v", err)
		}
		fmt.Printf("wrote %s\n", *xlsxOut)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	studyDir := fs.String("study", "", "Study folder (required)")
	studyID := fs.String("study-id", "", "Study identifier (required)")
	domainsFlag := fs.String("domains", "", "Comma-separated domain codes (required)")
	outputDir := fs.String("output", "", "Output directory (default: <study>/export)")
	_ = fs.Parse(args)

	if *studyDir == "" || *studyID == "" || *domainsFlag == "" {
		fail("export: --study, --study-id, and --domains are required")
	}
	domainCodes := strings.Split(*domainsFlag, ",")
	for i := range domainCodes {
		domainCodes[i] = strings.TrimSpace(domainCodes[i])
	}

	catalog, err := loadCatalog()
	if err != nil {
		fail("export: %v", err)
	}

	p := newStudyPaths(*studyDir)
	st := study.New(*studyID, *studyDir)
	for _, code := range domainCodes {
		if _, ok := catalog[code]; !ok {
			fail("export: unknown domain %s", code)
		}
		frame, err := readRawSource(p, code)
		if err != nil {
			fail("export: %s: %v", code, err)
		}
		cfg, err := loadMappingConfig(p, *studyID, code)
		if err != nil {
			fail("export: %s: %v", code, err)
		}
		preview, err := readPreviewCSV(p.previewCSV(code))
		if err != nil {
			fail("export: %s: %v (did you run transform first?)", code, err)
		}
		st.SetSource(code, frame)
		st.SetMapping(code, cfg) // invalidates the Preview we're about to set back
		st.SetPreview(code, preview, nil)
	}

	out := *outputDir
	if out == "" {
		out = filepath.Join(*studyDir, "export")
	}

	job := export.NewJob(fmt.Sprintf("cli-%d", len(domainCodes)))
	events := make(chan export.Event)
	go export.Run(job, st, catalog, export.Config{
		StudyID: *studyID, OutputDir: out, Domains: domainCodes, Format: export.FormatXPT,
	}, events)

	for event := range events {
		switch event.Kind {
		case export.EventProgress:
			fmt.Printf("[%s] %s\n", event.Domain, event.Step)
		case export.EventFileWritten:
			fmt.Printf("wrote %s\n", event.Path)
		case export.EventError:
			fmt.Printf("error (%s): %s\n", event.Domain, event.Message)
		case export.EventComplete:
			fmt.Printf("export complete: %d files in %dms\n", len(event.WrittenFiles), event.ElapsedMS)
		case export.EventCancelled:
			fmt.Println("export cancelled")
		}
	}
}

func loadMappingConfig(p studyPaths, studyID, domain string) (*mapping.Config, error) {
	repo, err := mapping.NewRepository(p.mappingDir(), func() string { return time.Now().UTC().Format(time.RFC3339) })
	if err != nil {
		return nil, fmt.Errorf("open mapping repository: %w", err)
	}
	stored, err := repo.Load(studyID, domain)
	if err != nil {
		return nil, fmt.Errorf("load mapping: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("no saved mapping for %s/%s; run 'map' first", studyID, domain)
	}
	return &mapping.Config{Assignments: stored.Config}, nil
}

func readRawSource(p studyPaths, domain string) (*ingest.SourceFrame, error) {
	metaBytes, err := os.ReadFile(p.rawMeta(domain))
	headerRows := 1
	if err == nil {
		var meta rawMeta
		if jsonErr := json.Unmarshal(metaBytes, &meta); jsonErr == nil && meta.HeaderRows > 0 {
			headerRows = meta.HeaderRows
		}
	}
	frame, _, err := ingest.ReadCSVTable(p.rawCSV(domain), headerRows)
	if err != nil {
		return nil, fmt.Errorf("read raw source for %s (did you run 'ingest' first?): %w", domain, err)
	}
	return frame, nil
}

// writeSourceCSV persists an ingested SourceFrame as a single-header-row
// CSV, the canonical on-disk form re-read by later pipeline stages.
func writeSourceCSV(path string, frame *ingest.SourceFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(frame.Headers.Names); err != nil {
		return err
	}
	for _, row := range frame.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writePreviewCSV(path string, frame *transform.DomainFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(frame.Columns); err != nil {
		return err
	}
	for _, row := range frame.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readPreviewCSV(path string) (*transform.DomainFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &transform.DomainFrame{}, nil
	}
	return &transform.DomainFrame{Columns: records[0], Rows: records[1:]}, nil
}
