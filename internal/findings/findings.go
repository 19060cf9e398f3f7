// Package findings defines the typed defect records produced by a corpus
// scan and the report collection that aggregates them.
package findings

import "sort"

// Kind discriminates the finding variants.
type Kind string

const (
	KindLink          Kind = "link"
	KindNote          Kind = "note"
	KindBullet        Kind = "bullet"
	KindNavigation    Kind = "navigation"
	KindSpacing       Kind = "spacing"
	KindImage         Kind = "image"
	KindDocumentError Kind = "document_error"
)

// Finding is one reported defect instance. Concrete types carry the
// rule-specific detail; consumers switch on Kind for exhaustive handling.
type Finding interface {
	FindingKind() Kind
	Document() string
}

// LinkStatus classifies a checked reference.
type LinkStatus string

const (
	StatusHealthy      LinkStatus = "healthy"
	StatusBroken       LinkStatus = "broken"
	StatusAmbiguous    LinkStatus = "ambiguous"
	StatusNotValidated LinkStatus = "not_validated"
)

// LinkFinding records a non-healthy reference resolution.
type LinkFinding struct {
	File         string     `json:"file"`
	Target       string     `json:"href"`
	Text         string     `json:"text"`
	ResolvedForm string     `json:"resolved_url"`
	Status       LinkStatus `json:"status"`
	Reason       string     `json:"error"`
	HTTPStatus   int        `json:"http_status,omitempty"`
	Candidates   int        `json:"candidates,omitempty"`
}

func (f LinkFinding) FindingKind() Kind { return KindLink }
func (f LinkFinding) Document() string  { return f.File }

// NoteFinding flags a document with at least one "Note:" occurrence outside
// the designated note container. At most one per document.
type NoteFinding struct {
	File      string `json:"file"`
	Reason    string `json:"error"`
	InsideBox bool   `json:"note_inside_box"`
}

func (f NoteFinding) FindingKind() Kind { return KindNote }
func (f NoteFinding) Document() string  { return f.File }

// BulletFinding records one bullet-alignment defect on one element.
type BulletFinding struct {
	File      string `json:"file"`
	ElementID string `json:"element_id,omitempty"`
	Text      string `json:"text"`
	Reason    string `json:"reason"`
}

func (f BulletFinding) FindingKind() Kind { return KindBullet }
func (f BulletFinding) Document() string  { return f.File }

// NavigationFinding records a defective breadcrumb path.
type NavigationFinding struct {
	File             string   `json:"file"`
	Path             string   `json:"navigation_path"`
	IncorrectSpacing bool     `json:"incorrect_spacing"`
	CamelCaseWords   []string `json:"camel_case_words,omitempty"`
}

func (f NavigationFinding) FindingKind() Kind { return KindNavigation }
func (f NavigationFinding) Document() string  { return f.File }

// Issues lists the issue labels present on the path.
func (f NavigationFinding) Issues() []string {
	var issues []string
	if f.IncorrectSpacing {
		issues = append(issues, "incorrect_spacing")
	}
	if len(f.CamelCaseWords) > 0 {
		issues = append(issues, "camel_case")
	}
	return issues
}

// SpacingFinding records an anchor whose display text runs into the
// surrounding text without separating whitespace.
type SpacingFinding struct {
	File          string `json:"file"`
	LinkText      string `json:"link_text"`
	MissingBefore bool   `json:"missing_space_before"`
	MissingAfter  bool   `json:"missing_space_after"`
}

func (f SpacingFinding) FindingKind() Kind { return KindSpacing }
func (f SpacingFinding) Document() string  { return f.File }

// ImageFinding records a missing, unreachable, or undecodable image.
// Validated is false when the image could not be checked at all and needs
// manual review, true when it was checked and found defective.
type ImageFinding struct {
	File      string `json:"file"`
	Src       string `json:"image_src"`
	Reason    string `json:"reason"`
	Validated bool   `json:"validated"`
}

func (f ImageFinding) FindingKind() Kind { return KindImage }
func (f ImageFinding) Document() string  { return f.File }

// DocumentError records a per-document failure (fetch or parse) that
// prevented checks from running. The scan continues past it.
type DocumentError struct {
	File  string `json:"file"`
	Stage string `json:"stage"`
	Err   string `json:"error"`
}

func (f DocumentError) FindingKind() Kind { return KindDocumentError }
func (f DocumentError) Document() string  { return f.File }

// Report is the aggregated result of one corpus scan.
type Report struct {
	CollectionID int64               `json:"collection_id"`
	Documents    int                 `json:"documents"`
	Links        []LinkFinding       `json:"links"`
	Notes        []NoteFinding       `json:"notes"`
	Bullets      []BulletFinding     `json:"bullets"`
	Navigation   []NavigationFinding `json:"navigation"`
	Spacing      []SpacingFinding    `json:"spacing"`
	Images       []ImageFinding      `json:"images"`
	Errors       []DocumentError     `json:"errors"`
}

func NewReport(collectionID int64, documents int) *Report {
	return &Report{CollectionID: collectionID, Documents: documents}
}

// Add routes a finding into its typed collection.
func (r *Report) Add(f Finding) {
	switch v := f.(type) {
	case LinkFinding:
		r.Links = append(r.Links, v)
	case NoteFinding:
		r.Notes = append(r.Notes, v)
	case BulletFinding:
		r.Bullets = append(r.Bullets, v)
	case NavigationFinding:
		r.Navigation = append(r.Navigation, v)
	case SpacingFinding:
		r.Spacing = append(r.Spacing, v)
	case ImageFinding:
		r.Images = append(r.Images, v)
	case DocumentError:
		r.Errors = append(r.Errors, v)
	}
}

// AddAll appends a batch of findings.
func (r *Report) AddAll(fs []Finding) {
	for _, f := range fs {
		r.Add(f)
	}
}

// Total counts findings across all kinds.
func (r *Report) Total() int {
	return len(r.Links) + len(r.Notes) + len(r.Bullets) + len(r.Navigation) +
		len(r.Spacing) + len(r.Images) + len(r.Errors)
}

// Sort orders every collection by document name (then by detail fields) so
// reports from the same corpus snapshot diff cleanly. Workers complete in
// arbitrary order, so callers needing stable output must sort.
func (r *Report) Sort() {
	sort.Slice(r.Links, func(i, j int) bool {
		if r.Links[i].File != r.Links[j].File {
			return r.Links[i].File < r.Links[j].File
		}
		return r.Links[i].Target < r.Links[j].Target
	})
	sort.Slice(r.Notes, func(i, j int) bool { return r.Notes[i].File < r.Notes[j].File })
	sort.Slice(r.Bullets, func(i, j int) bool {
		if r.Bullets[i].File != r.Bullets[j].File {
			return r.Bullets[i].File < r.Bullets[j].File
		}
		return r.Bullets[i].Reason < r.Bullets[j].Reason
	})
	sort.Slice(r.Navigation, func(i, j int) bool {
		if r.Navigation[i].File != r.Navigation[j].File {
			return r.Navigation[i].File < r.Navigation[j].File
		}
		return r.Navigation[i].Path < r.Navigation[j].Path
	})
	sort.Slice(r.Spacing, func(i, j int) bool {
		if r.Spacing[i].File != r.Spacing[j].File {
			return r.Spacing[i].File < r.Spacing[j].File
		}
		return r.Spacing[i].LinkText < r.Spacing[j].LinkText
	})
	sort.Slice(r.Images, func(i, j int) bool {
		if r.Images[i].File != r.Images[j].File {
			return r.Images[i].File < r.Images[j].File
		}
		return r.Images[i].Src < r.Images[j].Src
	})
	sort.Slice(r.Errors, func(i, j int) bool { return r.Errors[i].File < r.Errors[j].File })
}
