package linker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"gallerylinker/internal/extract"
	"gallerylinker/internal/logging"
	"gallerylinker/internal/stash"
	"gallerylinker/internal/stashbox"
)

// PerformerLinker runs a full gallery-to-performer linking pass. One value
// serves one run; construct a fresh linker per invocation.
type PerformerLinker struct {
	gateway  stash.Gateway
	stashbox *stashbox.Client
	logger   *slog.Logger
	opts     Options

	reviewTagID string
}

// NewPerformerLinker assembles a linking pass over the given gateway. The
// stash-box client may be nil when registry lookups are disabled.
func NewPerformerLinker(gateway stash.Gateway, sb *stashbox.Client, logger *slog.Logger, opts Options) *PerformerLinker {
	if logger == nil {
		logger = slog.Default()
	}
	return &PerformerLinker{
		gateway:  gateway,
		stashbox: sb,
		logger:   logger.With(logging.String(logging.FieldComponent, "performer-linker")),
		opts:     opts.normalized(),
	}
}

// Run fetches the library, generates and merges candidates per gallery, and
// applies the survivors. Fetch failures before the first gallery abort the
// run; everything after that is recorded in the report and the pass
// continues. Dry-run computes the identical report without store writes.
func (l *PerformerLinker) Run(ctx context.Context) (*Report, error) {
	galleries, err := l.gateway.FindGalleries(ctx)
	if err != nil {
		return nil, fmt.Errorf("find galleries: %w", err)
	}
	registry, err := l.gateway.FindPerformers(ctx)
	if err != nil {
		return nil, fmt.Errorf("find performers: %w", err)
	}

	extractor := extract.New(l.opts.PathDenylist)
	nameGen := newNameGenerator(registry, extractor, l.opts.MatchThreshold)
	generators := []Generator{sceneGenerator{}, nameGen}
	if l.opts.UseStashBox && l.stashbox != nil {
		generators = append(generators, newStashBoxGenerator(l.stashbox, extractor, l.opts.MatchThreshold))
	}

	l.logger.InfoContext(ctx, "linking pass started",
		logging.Int("galleries", len(galleries)),
		logging.Int("performers", len(registry)),
		logging.Bool(logging.FieldDryRun, l.opts.DryRun),
	)

	report := NewReport()
	for _, gallery := range galleries {
		report.Processed++
		l.processGallery(ctx, gallery, generators, nameGen, report)
	}

	summary := report.Summary()
	l.logger.InfoContext(ctx, "linking pass finished",
		logging.Int("processed", summary.Processed),
		logging.Int("linked", summary.Linked),
		logging.Int("created", summary.Created),
		logging.Int("errors", summary.Errors),
		logging.Int("skipped", summary.Skipped),
	)
	return report, nil
}

func (l *PerformerLinker) processGallery(ctx context.Context, gallery stash.Gallery, generators []Generator, nameGen *nameGenerator, report *Report) {
	linked := make(map[string]struct{}, len(gallery.Performers))
	for _, performer := range gallery.Performers {
		linked[performer.ID] = struct{}{}
	}

	type merged struct {
		candidate Candidate
		order     int
	}
	best := make(map[string]*merged)
	order := 0
	generationFailed := false
	for _, generator := range generators {
		candidates, err := generator.Generate(ctx, gallery)
		if err != nil {
			generationFailed = true
			l.logger.WarnContext(ctx, "candidate generation failed",
				logging.String(logging.FieldGalleryID, gallery.ID),
				logging.String(logging.FieldSource, generator.Label()),
				logging.Error(err),
			)
			report.add(LinkResult{
				Outcome:      OutcomeError,
				GalleryID:    gallery.ID,
				GalleryTitle: gallery.Title,
				GalleryPath:  gallery.Path(),
				Source:       generator.Label(),
				Reason:       err.Error(),
				DryRun:       l.opts.DryRun,
			})
			continue
		}
		for _, candidate := range candidates {
			if candidate.Score < l.opts.MatchThreshold {
				continue
			}
			key := candidate.identity()
			// Strictly greater keeps the earliest generator on exact ties.
			if existing, ok := best[key]; ok {
				if candidate.Score > existing.candidate.Score {
					existing.candidate = candidate
				}
				continue
			}
			best[key] = &merged{candidate: candidate, order: order}
			order++
		}
	}

	alreadyLinked := 0
	var survivors []merged
	for _, entry := range best {
		if entry.candidate.PerformerID != "" {
			if _, done := linked[entry.candidate.PerformerID]; done {
				alreadyLinked++
				continue
			}
		}
		survivors = append(survivors, *entry)
	}
	sort.Slice(survivors, func(i, j int) bool {
		if survivors[i].candidate.Score != survivors[j].candidate.Score {
			return survivors[i].candidate.Score > survivors[j].candidate.Score
		}
		return survivors[i].order < survivors[j].order
	})

	if len(survivors) == 0 {
		// A generation failure already placed the gallery in the errors
		// bucket; do not pile a skip on top of it.
		if !generationFailed {
			l.skipGallery(ctx, gallery, alreadyLinked, nameGen, report)
		}
		return
	}

	for _, entry := range survivors {
		l.apply(ctx, gallery, entry.candidate, report)
	}
}

// skipGallery records why a gallery produced no links. A gallery whose every
// match is already in place stays skipped on repeat runs; only a gallery
// with no matches at all may fall back to creating a performer from its own
// name phrases.
func (l *PerformerLinker) skipGallery(ctx context.Context, gallery stash.Gallery, alreadyLinked int, nameGen *nameGenerator, report *Report) {
	if alreadyLinked > 0 {
		report.add(LinkResult{
			Outcome:      OutcomeSkipped,
			GalleryID:    gallery.ID,
			GalleryTitle: gallery.Title,
			GalleryPath:  gallery.Path(),
			Reason:       "all matched performers already linked",
			DryRun:       l.opts.DryRun,
		})
		return
	}

	fallback, ok := nameGen.Fallback(gallery)
	if !ok {
		report.add(LinkResult{
			Outcome:      OutcomeSkipped,
			GalleryID:    gallery.ID,
			GalleryTitle: gallery.Title,
			GalleryPath:  gallery.Path(),
			Reason:       "no new performers found to link",
			DryRun:       l.opts.DryRun,
		})
		return
	}
	if !l.opts.CreateMissing {
		report.add(LinkResult{
			Outcome:       OutcomeSkipped,
			GalleryID:     gallery.ID,
			GalleryTitle:  gallery.Title,
			GalleryPath:   gallery.Path(),
			PerformerName: fallback.PerformerName,
			Source:        fallback.Source,
			Reason:        "performer not found, creation disabled",
			DryRun:        l.opts.DryRun,
		})
		return
	}
	l.apply(ctx, gallery, fallback, report)
}

func (l *PerformerLinker) apply(ctx context.Context, gallery stash.Gallery, candidate Candidate, report *Report) {
	result := LinkResult{
		GalleryID:     gallery.ID,
		GalleryTitle:  gallery.Title,
		GalleryPath:   gallery.Path(),
		PerformerID:   candidate.PerformerID,
		PerformerName: candidate.PerformerName,
		Score:         candidate.Score,
		Source:        candidate.Source,
		DryRun:        l.opts.DryRun,
	}

	creating := candidate.PerformerID == ""
	if creating {
		result.Outcome = OutcomeCreated
	} else {
		result.Outcome = OutcomeLinked
	}

	if l.opts.DryRun {
		l.logger.InfoContext(ctx, "would link performer",
			logging.String(logging.FieldGalleryID, gallery.ID),
			logging.String(logging.FieldPerformer, candidate.PerformerName),
			logging.String(logging.FieldSource, candidate.Source),
			logging.Float64(logging.FieldScore, candidate.Score),
			logging.Bool(logging.FieldDryRun, true),
		)
		report.add(result)
		return
	}

	performerID := candidate.PerformerID
	if creating {
		created, err := l.createPerformer(ctx, candidate.PerformerName)
		if err != nil {
			result.Outcome = OutcomeError
			result.Reason = err.Error()
			report.add(result)
			return
		}
		performerID = created.ID
		result.PerformerID = created.ID
	}

	if err := l.gateway.AddGalleryPerformers(ctx, gallery.ID, []string{performerID}); err != nil {
		l.logger.WarnContext(ctx, "link write failed",
			logging.String(logging.FieldGalleryID, gallery.ID),
			logging.String(logging.FieldPerformer, candidate.PerformerName),
			logging.Error(err),
		)
		result.Outcome = OutcomeError
		result.Reason = err.Error()
		report.add(result)
		return
	}

	l.logger.InfoContext(ctx, "performer linked",
		logging.String(logging.FieldGalleryID, gallery.ID),
		logging.String(logging.FieldPerformer, candidate.PerformerName),
		logging.String(logging.FieldSource, candidate.Source),
		logging.Float64(logging.FieldScore, candidate.Score),
	)
	report.add(result)
}

// createPerformer creates a performer carrying the review tag so operators
// can audit machine-created records. A name collision means another writer
// got there first; the collision is recorded for this group, and the next
// pass links the existing record through the registry read.
func (l *PerformerLinker) createPerformer(ctx context.Context, name string) (*stash.Performer, error) {
	var tagIDs []string
	if l.opts.ReviewTag != "" {
		if l.reviewTagID == "" {
			tag, err := l.gateway.FindOrCreateTag(ctx, l.opts.ReviewTag)
			if err != nil {
				return nil, fmt.Errorf("review tag: %w", err)
			}
			l.reviewTagID = tag.ID
		}
		tagIDs = []string{l.reviewTagID}
	}

	return l.gateway.CreatePerformer(ctx, name, tagIDs)
}
