package linker

import "gallerylinker/internal/textmatch"

// Candidate source labels, in generator priority order.
const (
	SourceLinkedScene  = "linked_scene"
	SourceNameMatch    = "name_match"
	SourceNameMatchNew = "name_match_new"
	SourceStashBox     = "stashbox"
)

// Candidate is a proposed, unpersisted performer-gallery match awaiting
// acceptance. A candidate with an empty PerformerID references a performer
// that does not exist yet and would be created on apply.
type Candidate struct {
	GalleryID     string
	PerformerID   string
	PerformerName string
	Score         float64
	Source        string
}

// identity keys candidates that target the same performer: the store ID when
// the performer exists, otherwise the normalized new-performer name.
func (c Candidate) identity() string {
	if c.PerformerID != "" {
		return "id:" + c.PerformerID
	}
	return "new:" + textmatch.Normalize(c.PerformerName)
}
