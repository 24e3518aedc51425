package stash

import "time"

// Tag is a label attached to performers or galleries.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PerformerRef is the identity subset of a performer embedded in other
// entities.
type PerformerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GalleryRef is the identity subset of a gallery embedded in scenes.
type GalleryRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// File carries the filesystem location backing a gallery or scene.
type File struct {
	Path string `json:"path"`
}

// Scene is a video entity. The engine only reads scenes.
type Scene struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Date       string         `json:"date"`
	Files      []File         `json:"files"`
	Performers []PerformerRef `json:"performers"`
	Galleries  []GalleryRef   `json:"galleries"`
}

// Gallery is an image collection, the unit the engine links against. Scenes
// and performers already attached to the gallery come back embedded so a
// linking pass needs no per-gallery follow-up queries.
type Gallery struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Date       string         `json:"date"`
	Files      []File         `json:"files"`
	Performers []PerformerRef `json:"performers"`
	Scenes     []Scene        `json:"scenes"`
	Tags       []Tag          `json:"tags"`
}

// Performer is a person entity that can be linked to galleries and scenes.
type Performer struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"alias_list"`
	Tags    []Tag    `json:"tags"`
}

// Path returns the first file path backing the gallery, or "".
func (g Gallery) Path() string {
	if len(g.Files) == 0 {
		return ""
	}
	return g.Files[0].Path
}

// Path returns the first file path backing the scene, or "".
func (s Scene) Path() string {
	if len(s.Files) == 0 {
		return ""
	}
	return s.Files[0].Path
}

// ParsedDate parses the gallery date, reporting false when absent or
// malformed.
func (g Gallery) ParsedDate() (time.Time, bool) {
	return parseDate(g.Date)
}

// ParsedDate parses the scene date, reporting false when absent or malformed.
func (s Scene) ParsedDate() (time.Time, bool) {
	return parseDate(s.Date)
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
