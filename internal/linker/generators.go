package linker

import (
	"context"
	"fmt"
	"strings"

	"gallerylinker/internal/extract"
	"gallerylinker/internal/stash"
	"gallerylinker/internal/stashbox"
	"gallerylinker/internal/textmatch"
)

// Generator proposes performer candidates for one gallery. Generators run in
// a fixed order and never write to the store; the orchestrator merges their
// output and decides what to apply.
type Generator interface {
	Label() string
	Generate(ctx context.Context, gallery stash.Gallery) ([]Candidate, error)
}

// sceneGenerator proposes the performers of scenes already linked to the
// gallery. A shared scene is the strongest evidence available, so every
// candidate carries a full score.
type sceneGenerator struct{}

func (sceneGenerator) Label() string { return SourceLinkedScene }

func (sceneGenerator) Generate(_ context.Context, gallery stash.Gallery) ([]Candidate, error) {
	var candidates []Candidate
	seen := make(map[string]struct{})
	for _, scene := range gallery.Scenes {
		for _, performer := range scene.Performers {
			if performer.ID == "" {
				continue
			}
			if _, dup := seen[performer.ID]; dup {
				continue
			}
			seen[performer.ID] = struct{}{}
			candidates = append(candidates, Candidate{
				GalleryID:     gallery.ID,
				PerformerID:   performer.ID,
				PerformerName: performer.Name,
				Score:         1.0,
				Source:        SourceLinkedScene,
			})
		}
	}
	return candidates, nil
}

// nameGenerator matches extracted phrases against the known performer
// registry by canonical name and aliases.
type nameGenerator struct {
	registry  []stash.Performer
	extractor *extract.Extractor
	threshold float64
}

func newNameGenerator(registry []stash.Performer, extractor *extract.Extractor, threshold float64) *nameGenerator {
	return &nameGenerator{registry: registry, extractor: extractor, threshold: threshold}
}

func (g *nameGenerator) Label() string { return SourceNameMatch }

func (g *nameGenerator) Generate(_ context.Context, gallery stash.Gallery) ([]Candidate, error) {
	phrases := g.extractor.Phrases(gallery.Title, gallery.Path())
	if len(phrases) == 0 {
		return nil, nil
	}

	var candidates []Candidate
	for _, performer := range g.registry {
		best := 0.0
		for _, phrase := range phrases {
			if score := textmatch.Score(phrase, performer.Name); score > best {
				best = score
			}
			for _, alias := range performer.Aliases {
				if score := textmatch.Score(phrase, alias); score > best {
					best = score
				}
			}
		}
		if best >= g.threshold {
			candidates = append(candidates, Candidate{
				GalleryID:     gallery.ID,
				PerformerID:   performer.ID,
				PerformerName: performer.Name,
				Score:         best,
				Source:        SourceNameMatch,
			})
		}
	}
	return candidates, nil
}

// Fallback picks the most name-like extracted phrase as a new-performer
// candidate. It is consulted only when a gallery produced no applicable
// matches at all: short all-alphabetic phrases are taken whole, longer ones
// contribute their leading two words.
func (g *nameGenerator) Fallback(gallery stash.Gallery) (Candidate, bool) {
	for _, phrase := range g.extractor.Phrases(gallery.Title, gallery.Path()) {
		name, ok := nameLike(phrase)
		if !ok {
			continue
		}
		return Candidate{
			GalleryID:     gallery.ID,
			PerformerName: extract.CanonicalName(name),
			Score:         g.threshold,
			Source:        SourceNameMatchNew,
		}, true
	}
	return Candidate{}, false
}

// nameLike accepts phrases that plausibly spell a person's name. Two or three
// alphabetic words pass as-is; longer phrases are reduced to their first two
// words when those are alphabetic.
func nameLike(phrase string) (string, bool) {
	tokens := textmatch.Tokenize(phrase)
	switch {
	case len(tokens) >= 2 && len(tokens) <= 3:
		if allAlphabetic(tokens) {
			return strings.Join(tokens, " "), true
		}
	case len(tokens) > 3:
		lead := tokens[:2]
		if allAlphabetic(lead) {
			return strings.Join(lead, " "), true
		}
	}
	return "", false
}

func allAlphabetic(tokens []string) bool {
	for _, token := range tokens {
		for _, r := range token {
			if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
				return false
			}
		}
	}
	return true
}

// stashboxGenerator consults the community registry for performers matching
// the gallery's extracted phrases.
type stashboxGenerator struct {
	client    *stashbox.Client
	extractor *extract.Extractor
	threshold float64
}

func newStashBoxGenerator(client *stashbox.Client, extractor *extract.Extractor, threshold float64) *stashboxGenerator {
	return &stashboxGenerator{client: client, extractor: extractor, threshold: threshold}
}

func (g *stashboxGenerator) Label() string { return SourceStashBox }

func (g *stashboxGenerator) Generate(ctx context.Context, gallery stash.Gallery) ([]Candidate, error) {
	var candidates []Candidate
	for _, phrase := range g.extractor.Phrases(gallery.Title, gallery.Path()) {
		matches, err := g.client.FindPerformers(ctx, phrase)
		if err != nil {
			return nil, fmt.Errorf("stash-box lookup %q: %w", phrase, err)
		}
		for _, match := range matches {
			if match.Score < g.threshold {
				continue
			}
			candidates = append(candidates, Candidate{
				GalleryID:     gallery.ID,
				PerformerName: match.Name,
				Score:         match.Score,
				Source:        SourceStashBox,
			})
		}
	}
	return candidates, nil
}
