// Package ct implements the CDISC Controlled Terminology model: Term,
// Codelist, and the catalog/registry that groups and resolves them, plus
// submission-value/synonym normalization.
package ct

import "strings"

// Term is one controlled value within a Codelist.
type Term struct {
	Code            string
	SubmissionValue string
	Synonyms        []string
	Definition      string
	PreferredTerm   string
}

// Codelist is one NCI-coded controlled terminology list.
type Codelist struct {
	Code        string
	Name        string
	Extensible  bool
	// terms maps uppercase submission value -> Term.
	terms map[string]Term
	// synonyms maps uppercase alias -> uppercase canonical submission-value key.
	synonyms map[string]string
}

// NewCodelist creates an empty codelist. Extensible starts false; callers
// set it when the source marks the codelist extensible.
func NewCodelist(code, name string) *Codelist {
	return &Codelist{
		Code:     code,
		Name:     name,
		terms:    make(map[string]Term),
		synonyms: make(map[string]string),
	}
}

// AddTerm registers a term's submission value and synonyms. Submission
// values that collide keep the first-registered term. Synonym collisions
// with an existing submission-value key are dropped.
func (c *Codelist) AddTerm(t Term) {
	key := strings.ToUpper(strings.TrimSpace(t.SubmissionValue))
	if key == "" {
		return
	}
	if _, exists := c.terms[key]; !exists {
		c.terms[key] = t
	}
	for _, syn := range t.Synonyms {
		synKey := strings.ToUpper(strings.TrimSpace(syn))
		if synKey == "" || synKey == key {
			continue
		}
		if _, isSubmissionValue := c.terms[synKey]; isSubmissionValue {
			continue
		}
		if _, exists := c.synonyms[synKey]; !exists {
			c.synonyms[synKey] = key
		}
	}
}

// Term returns the term registered under the given uppercase submission value.
func (c *Codelist) Term(submissionValueKey string) (Term, bool) {
	t, ok := c.terms[submissionValueKey]
	return t, ok
}

// SynonymTarget returns the canonical submission-value key an alias resolves to.
func (c *Codelist) SynonymTarget(aliasKey string) (string, bool) {
	k, ok := c.synonyms[aliasKey]
	return k, ok
}

// Normalize resolves value against this codelist: exact submission-value
// match (case-insensitive) first, then synonym, else the value unchanged.
func (c *Codelist) Normalize(value string) string {
	key := strings.ToUpper(strings.TrimSpace(value))
	if key == "" {
		return value
	}
	if t, ok := c.terms[key]; ok {
		return t.SubmissionValue
	}
	if target, ok := c.synonyms[key]; ok {
		if t, ok := c.terms[target]; ok {
			return t.SubmissionValue
		}
	}
	return value
}

// AllowedValues returns the union of submission values and synonyms, used by
// the validator to report CT violations.
func (c *Codelist) AllowedValues() []string {
	seen := make(map[string]bool, len(c.terms)+len(c.synonyms))
	out := make([]string, 0, len(c.terms)+len(c.synonyms))
	for _, t := range c.terms {
		if !seen[t.SubmissionValue] {
			seen[t.SubmissionValue] = true
			out = append(out, t.SubmissionValue)
		}
	}
	for alias := range c.synonyms {
		if !seen[alias] {
			seen[alias] = true
			out = append(out, alias)
		}
	}
	return out
}

// Contains reports whether value matches a submission value or synonym,
// case-insensitively.
func (c *Codelist) Contains(value string) bool {
	key := strings.ToUpper(strings.TrimSpace(value))
	if _, ok := c.terms[key]; ok {
		return true
	}
	_, ok := c.synonyms[key]
	return ok
}

// Catalog bundles the codelists published in one CT release (e.g. "SDTM CT 2024-03-29").
type Catalog struct {
	Label     string
	Codelists map[string]*Codelist // keyed by NCI code
}

// NewCatalog creates an empty catalog.
func NewCatalog(label string) *Catalog {
	return &Catalog{Label: label, Codelists: make(map[string]*Codelist)}
}

// Registry holds catalogs keyed by uppercase label.
type Registry struct {
	catalogs map[string]*Catalog
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{catalogs: make(map[string]*Catalog)}
}

// Add registers a catalog, keyed by the uppercase of its label.
func (r *Registry) Add(c *Catalog) {
	r.catalogs[strings.ToUpper(c.Label)] = c
}

// Catalog looks up a catalog by label (case-insensitive).
func (r *Registry) Catalog(label string) (*Catalog, bool) {
	c, ok := r.catalogs[strings.ToUpper(label)]
	return c, ok
}

// ResolveCodelist finds a codelist by NCI code, honoring this resolution
// order: caller-preferred catalogs first, then "SDTM CT", then "SEND CT",
// then the rest alphabetically. Ties (same code present in more than one
// eligible catalog) are broken by first match in that order.
func (r *Registry) ResolveCodelist(code string, preferred ...string) (*Codelist, bool) {
	order := make([]string, 0, len(r.catalogs))
	seen := make(map[string]bool)

	for _, p := range preferred {
		key := strings.ToUpper(p)
		if cat, ok := r.catalogs[key]; ok && !seen[key] {
			seen[key] = true
			order = append(order, cat.Label)
		}
	}
	for _, fixed := range []string{"SDTM CT", "SEND CT"} {
		key := strings.ToUpper(fixed)
		if cat, ok := r.catalogs[key]; ok && !seen[key] {
			seen[key] = true
			order = append(order, cat.Label)
		}
	}
	var rest []string
	for key, cat := range r.catalogs {
		if !seen[key] {
			rest = append(rest, cat.Label)
		}
	}
	sortStrings(rest)
	order = append(order, rest...)

	for _, label := range order {
		cat := r.catalogs[strings.ToUpper(label)]
		if cat == nil {
			continue
		}
		if cl, ok := cat.Codelists[code]; ok {
			return cl, true
		}
	}
	return nil, false
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}
