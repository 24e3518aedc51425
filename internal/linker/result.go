package linker

// Outcome classifies what happened to one attempted link.
type Outcome string

const (
	OutcomeLinked  Outcome = "linked"
	OutcomeCreated Outcome = "created"
	OutcomeError   Outcome = "error"
	OutcomeSkipped Outcome = "skipped"
)

// LinkResult records the outcome of applying one candidate, or a per-gallery
// or per-scene skip. Scene fields are populated by scene-linking runs,
// performer fields by performer-linking runs.
type LinkResult struct {
	Outcome       Outcome `json:"outcome"`
	GalleryID     string  `json:"gallery_id,omitempty"`
	GalleryTitle  string  `json:"gallery_title,omitempty"`
	GalleryPath   string  `json:"gallery_path,omitempty"`
	SceneID       string  `json:"scene_id,omitempty"`
	SceneTitle    string  `json:"scene_title,omitempty"`
	PerformerID   string  `json:"performer_id,omitempty"`
	PerformerName string  `json:"performer_name,omitempty"`
	Score         float64 `json:"score,omitempty"`
	Source        string  `json:"source,omitempty"`
	Reason        string  `json:"reason,omitempty"`
	DryRun        bool    `json:"dry_run,omitempty"`
}

// Report accumulates results into four ordered buckets. Order within each
// bucket follows processing order; no result is ever dropped.
type Report struct {
	Processed int          `json:"processed"`
	Linked    []LinkResult `json:"linked"`
	Created   []LinkResult `json:"created"`
	Errors    []LinkResult `json:"errors"`
	Skipped   []LinkResult `json:"skipped"`
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

func (r *Report) add(result LinkResult) {
	switch result.Outcome {
	case OutcomeLinked:
		r.Linked = append(r.Linked, result)
	case OutcomeCreated:
		r.Created = append(r.Created, result)
	case OutcomeError:
		r.Errors = append(r.Errors, result)
	case OutcomeSkipped:
		r.Skipped = append(r.Skipped, result)
	}
}

// Summary is the flat count view of a report.
type Summary struct {
	Processed int `json:"processed"`
	Linked    int `json:"linked"`
	Created   int `json:"created"`
	Errors    int `json:"errors"`
	Skipped   int `json:"skipped"`
}

// Summary returns the report's counts.
func (r *Report) Summary() Summary {
	return Summary{
		Processed: r.Processed,
		Linked:    len(r.Linked),
		Created:   len(r.Created),
		Errors:    len(r.Errors),
		Skipped:   len(r.Skipped),
	}
}

// Coverage summarizes how much of the library is linked at all, independent
// of any linking run.
type Coverage struct {
	TotalGalleries     int     `json:"total_galleries"`
	LinkedToScenes     int     `json:"linked_to_scenes"`
	LinkedToPerformers int     `json:"linked_to_performers"`
	Unlinked           int     `json:"unlinked"`
	CoveragePercent    float64 `json:"coverage_percentage"`
}
