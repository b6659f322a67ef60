package chatad

import "strings"

// Reserved category labels.
const (
	CategoryOther         = "Other"
	SubcategoryOther      = "Other"
	SubcategoryUncategory = "Uncategorized"
)

// Rule files documents whose title contains any of Keywords under
// Category/Subcategory.
type Rule struct {
	Category    string
	Subcategory string
	Keywords    []string
}

// Placement is the outcome of categorizing a single document.
type Placement struct {
	Category    string
	Subcategory string

	// Skip is set for meeting-note artifacts, which belong to no category.
	Skip bool
}

// Uncategorized reports whether the placement is the default bucket.
func (p Placement) Uncategorized() bool {
	return !p.Skip && p.Category == CategoryOther && p.Subcategory == SubcategoryUncategory
}

// Taxonomy is an ordered rule list. Evaluation is top to bottom and the
// first matching keyword wins, so declaration order is significant.
type Taxonomy struct {
	Rules []Rule

	// Fallbacks are generic rules tried when no entry in Rules matched.
	Fallbacks []Rule

	// MeetingTitleTerms and MeetingURLTerms must both match for a
	// document to be skipped.
	MeetingTitleTerms []string
	MeetingURLTerms   []string
}

// Categorize files a document by title and URL.
func (t *Taxonomy) Categorize(title, url string) Placement {
	lowerTitle := strings.ToLower(title)
	lowerURL := strings.ToLower(url)

	if containsAny(lowerTitle, t.MeetingTitleTerms) && containsAny(lowerURL, t.MeetingURLTerms) {
		return Placement{Skip: true}
	}

	if p, ok := matchRules(lowerTitle, t.Rules); ok {
		return p
	}
	if p, ok := matchRules(lowerTitle, t.Fallbacks); ok {
		return p
	}

	return Placement{Category: CategoryOther, Subcategory: SubcategoryUncategory}
}

// Categories returns category names in declaration order, followed by any
// categories only reachable through fallbacks, followed by Other.
func (t *Taxonomy) Categories() []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, r := range t.Rules {
		add(r.Category)
	}
	for _, r := range t.Fallbacks {
		add(r.Category)
	}
	add(CategoryOther)
	return names
}

// Subcategories returns subcategory names of category in declaration
// order, with Other and Uncategorized last.
func (t *Taxonomy) Subcategories(category string) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, r := range t.Rules {
		if r.Category == category {
			add(r.Subcategory)
		}
	}
	for _, r := range t.Fallbacks {
		if r.Category == category {
			add(r.Subcategory)
		}
	}
	if category == CategoryOther {
		add(SubcategoryUncategory)
	}
	return names
}

func matchRules(lowerTitle string, rules []Rule) (Placement, bool) {
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lowerTitle, strings.ToLower(kw)) {
				return Placement{Category: r.Category, Subcategory: r.Subcategory}, true
			}
		}
	}
	return Placement{}, false
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// DefaultTaxonomy returns the ADNI documentation structure as published on
// the consortium's documentation page.
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		MeetingTitleTerms: []string{"meeting", "notes"},
		MeetingURLTerms:   []string{"meetingnotes", "meeting_notes"},
		Rules: []Rule{
			{"MRI Protocols", "General", []string{"ADNI MRI Overview", "ADNI MRI Method for Non-ADNI Studies", "MRI Acquisition Table"}},
			{"MRI Protocols", "ADNI3", []string{"ADNI3 MRI Analysis Manual", "ADNI3 MRI Technical Manual", "ADNI 3 MRI Protocols Quick Guide", "ADNI3 MRI Scanner Protocols"}},
			{"MRI Protocols", "ADNI2/GO", []string{"ADNI GO MRI Technical Procedures", "ADNI GO/2 MRI Training Manual", "ADNI 2 MRI Technical Procedures", "ADNI2/GO MRI Scanner Protocols"}},
			{"MRI Protocols", "ADNI1", []string{"ADNI 1 MRI Technical Procedures", "ADNI MRI Core Protocol Selection Summary", "ADNI1 MRI Scanner Protocols", "ADNI1 Standardized MRI Collections", "ADNI1 MRI Processed Image Types"}},
			{"PET Protocols", "General", []string{"ADNI 1 PET Technical Procedures", "PET PIB Technical Manual", "ADNI GO PET Technical Procedures", "ADNI 2 PET Technical Procedures", "ADNI 3 PET Technical Manual", "ADNI Centiloids"}},
			{"Clinical Protocols", "ADNI1", []string{"ADNI 1 Clinical Protocols"}},
			{"Clinical Protocols", "ADNI GO", []string{"ADNI GO Clinical Protocols"}},
			{"Clinical Protocols", "ADNI2", []string{"ADNI 2 Clinical Protocols"}},
			{"Clinical Protocols", "ADNI3", []string{"ADNI 3 Clinical Protocols"}},
			{"Biospecimen Protocols", "CSF", []string{"CSF Biomarker Test Instructions", "Lumbar Puncture Protocol"}},
			{"Biospecimen Protocols", "Brain Tissue", []string{"Neuropathology Sort Protocol", "Neuropathology Manual"}},
			{"Biospecimen Protocols", "Samples", []string{"ADNI3 Biomarker Sample Collection", "Genetics Sample Collection", "Biofluid Collections"}},
			{"Policies and Procedures", "General", []string{"Data Sharing and Publication Policy", "ADNI Data Use Agreement", "ADNI Manuscript Citations", "ADNI Acknowledgement List", "Groups Acknowldgements", "Access to ADNI Samples", "ADNI RARC Biomarker Application", "ADNI RARC Biomarker Policies"}},
			{"Consent Forms", "ADNI4", []string{"ADNI4 Clinical To Digital Study Partner", "ADNI4 Remote Blood Cohort", "ADNI4 Remote Digital Cohort", "ADNI4 Remote Digital Study Partner", "ADNI4 Clinical To Digital Monitoring", "New Participant ICF", "Rollover Participant ICF", "Study Partner ICF", "Telephone Visit ICF", "Amyloid PET Scan"}},
			{"Consent Forms", "ADNI3", []string{"ADNI3 ProtocolVersion", "ADNI3_Sample_Early Frames", "ADNI3_Sample_Brain Donation", "ADNI3 Sample New Subject", "ADNI3 Sample_Rollover Subject", "ADNI3 Sample Telephone Visit Addendum", "ADNI3 Sample Telephone Visit ICF", "ADNI3 Schedule of Activites"}},
			{"Consent Forms", "ADNI2", []string{"ADNI2 Sample New Subjects", "ADNI2 Sample Follow-up Subjects"}},
		},
		Fallbacks: []Rule{
			{"MRI Protocols", SubcategoryOther, []string{"mri"}},
			{"PET Protocols", SubcategoryOther, []string{"pet"}},
			{"Clinical Protocols", SubcategoryOther, []string{"clinical", "protocol"}},
			{"Consent Forms", SubcategoryOther, []string{"consent", "icf"}},
			{"Biospecimen Protocols", SubcategoryOther, []string{"biospecimen", "biofluid", "csf"}},
			{"Policies and Procedures", SubcategoryOther, []string{"policy", "procedures", "agreement"}},
		},
	}
}
