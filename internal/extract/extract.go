package extract

import (
	"path"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gallerylinker/internal/textmatch"
)

// archiveExtensions are stripped before any other filename cleanup so
// "Jane_Doe.zip" reads the same as a plain folder name.
var archiveExtensions = []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"}

// defaultDenylist filters path segments that name containers rather than
// people. Callers may extend it through their configuration.
var defaultDenylist = []string{
	"storage", "galleries", "gallery", "images", "img", "pics", "pictures",
	"photos", "downloads", "media", "library", "data", "archive", "archives",
	"the", "and", "of", "a", "an",
}

var (
	numericSegment = regexp.MustCompile(`^[0-9]+$`)
	datePatterns   = []struct {
		re     *regexp.Regexp
		layout string
	}{
		{regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`), "2006-01-02"},
		{regexp.MustCompile(`(\d{4})_(\d{2})_(\d{2})`), "2006_01_02"},
		{regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`), "20060102"},
	}
)

// Extractor produces name phrases from gallery titles and paths.
type Extractor struct {
	denylist map[string]struct{}
}

// New builds an extractor. Extra denylist entries are merged with the
// built-in container-name defaults; matching is against whole normalized
// segments.
func New(extraDenylist []string) *Extractor {
	denylist := make(map[string]struct{}, len(defaultDenylist)+len(extraDenylist))
	for _, entry := range defaultDenylist {
		denylist[textmatch.Normalize(entry)] = struct{}{}
	}
	for _, entry := range extraDenylist {
		normalized := textmatch.Normalize(entry)
		if normalized != "" {
			denylist[normalized] = struct{}{}
		}
	}
	return &Extractor{denylist: denylist}
}

// Phrases returns the ordered candidate phrases for a gallery, most specific
// first: the title, the archive/file name, the containing folder, then the
// remaining path segments walking toward the root. Denylisted, numeric, and
// duplicate segments are dropped.
func (e *Extractor) Phrases(title, galleryPath string) []string {
	var ordered []string
	seen := make(map[string]struct{})

	appendPhrase := func(raw string) {
		phrase := textmatch.Normalize(raw)
		if phrase == "" {
			return
		}
		if _, dup := seen[phrase]; dup {
			return
		}
		if e.rejected(phrase) {
			return
		}
		seen[phrase] = struct{}{}
		ordered = append(ordered, phrase)
	}

	appendPhrase(title)
	appendPhrase(TitleFromPath(galleryPath))

	segments := pathSegments(galleryPath)
	// Skip the final segment: TitleFromPath already covered it.
	for i := len(segments) - 2; i >= 0; i-- {
		appendPhrase(segments[i])
	}

	return ordered
}

func (e *Extractor) rejected(phrase string) bool {
	if numericSegment.MatchString(strings.ReplaceAll(phrase, " ", "")) {
		return true
	}
	_, denied := e.denylist[phrase]
	return denied
}

func pathSegments(galleryPath string) []string {
	trimmed := strings.Trim(galleryPath, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// TitleFromPath extracts a display title from a gallery file path: the base
// name with archive and file extensions removed and separators collapsed.
func TitleFromPath(galleryPath string) string {
	if galleryPath == "" {
		return ""
	}
	name := path.Base(galleryPath)

	lowered := strings.ToLower(name)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lowered, ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}
	name = strings.TrimSuffix(name, path.Ext(name))

	return textmatch.Normalize(name)
}

// DateFromName finds a date embedded in a file or folder name. Recognized
// forms are 2023-01-15, 2023_01_15, and 20230115.
func DateFromName(name string) (time.Time, bool) {
	for _, pattern := range datePatterns {
		match := pattern.re.FindString(name)
		if match == "" {
			continue
		}
		parsed, err := time.Parse(pattern.layout, match)
		if err != nil {
			continue
		}
		return parsed, true
	}
	return time.Time{}, false
}

var titleCaser = cases.Title(language.Und)

// CanonicalName renders a normalized phrase as a presentable performer name,
// e.g. "emily rose" becomes "Emily Rose".
func CanonicalName(phrase string) string {
	return titleCaser.String(textmatch.Normalize(phrase))
}
