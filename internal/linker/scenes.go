package linker

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"gallerylinker/internal/extract"
	"gallerylinker/internal/logging"
	"gallerylinker/internal/stash"
	"gallerylinker/internal/textmatch"
)

// Scene linking strategies.
const (
	StrategyPathProximity  = "path_proximity"
	StrategyNameSimilarity = "name_similarity"
	StrategyDirectoryMatch = "directory_match"
	StrategyDateProximity  = "date_proximity"
	StrategyAddAdditional  = "add_additional"
)

// Strategies lists the recognized scene-linking strategy names.
func Strategies() []string {
	return []string{
		StrategyPathProximity,
		StrategyNameSimilarity,
		StrategyDirectoryMatch,
		StrategyDateProximity,
		StrategyAddAdditional,
	}
}

// strategyThresholds are the closed acceptance bounds per strategy: a pair
// scoring at or above its strategy's bound is linkable.
var strategyThresholds = map[string]float64{
	StrategyPathProximity:  0.75,
	StrategyNameSimilarity: 0.5,
	StrategyDirectoryMatch: 1.0,
	StrategyDateProximity:  0.5,
	StrategyAddAdditional:  0.5,
}

// SceneLinker pairs scenes with galleries under one of the matching
// strategies. Scenes that already carry galleries are left alone except
// under add_additional, which only appends.
type SceneLinker struct {
	gateway stash.Gateway
	logger  *slog.Logger
	opts    Options
}

// NewSceneLinker assembles a scene-gallery linking pass.
func NewSceneLinker(gateway stash.Gateway, logger *slog.Logger, opts Options) *SceneLinker {
	if logger == nil {
		logger = slog.Default()
	}
	return &SceneLinker{
		gateway: gateway,
		logger:  logger.With(logging.String(logging.FieldComponent, "scene-linker")),
		opts:    opts.normalized(),
	}
}

// Run scores every scene against every gallery under the configured
// strategy and links the top matches, at most MaxSceneMatches per scene. As
// with performer linking, fetch failures abort the run and everything after
// the first scene is recorded in the report.
func (l *SceneLinker) Run(ctx context.Context) (*Report, error) {
	threshold, ok := strategyThresholds[l.opts.SceneStrategy]
	if !ok {
		return nil, fmt.Errorf("unknown scene strategy %q", l.opts.SceneStrategy)
	}

	scenes, err := l.gateway.FindScenes(ctx)
	if err != nil {
		return nil, fmt.Errorf("find scenes: %w", err)
	}
	galleries, err := l.gateway.FindGalleries(ctx)
	if err != nil {
		return nil, fmt.Errorf("find galleries: %w", err)
	}

	l.logger.InfoContext(ctx, "scene linking pass started",
		logging.Int("scenes", len(scenes)),
		logging.Int("galleries", len(galleries)),
		logging.String(logging.FieldMode, l.opts.SceneStrategy),
		logging.Bool(logging.FieldDryRun, l.opts.DryRun),
	)

	report := NewReport()
	for _, scene := range scenes {
		report.Processed++
		l.processScene(ctx, scene, galleries, threshold, report)
	}

	summary := report.Summary()
	l.logger.InfoContext(ctx, "scene linking pass finished",
		logging.Int("processed", summary.Processed),
		logging.Int("linked", summary.Linked),
		logging.Int("errors", summary.Errors),
		logging.Int("skipped", summary.Skipped),
	)
	return report, nil
}

func (l *SceneLinker) processScene(ctx context.Context, scene stash.Scene, galleries []stash.Gallery, threshold float64, report *Report) {
	existing := make(map[string]struct{}, len(scene.Galleries))
	for _, ref := range scene.Galleries {
		existing[ref.ID] = struct{}{}
	}

	if len(existing) > 0 && l.opts.SceneStrategy != StrategyAddAdditional {
		report.add(LinkResult{
			Outcome:    OutcomeSkipped,
			SceneID:    scene.ID,
			SceneTitle: scene.Title,
			Reason:     "scene already has galleries",
			DryRun:     l.opts.DryRun,
		})
		return
	}

	type scored struct {
		gallery stash.Gallery
		score   float64
		order   int
	}
	var matches []scored
	for i, gallery := range galleries {
		if _, linked := existing[gallery.ID]; linked {
			continue
		}
		score := l.scorePair(scene, gallery)
		if score >= threshold {
			matches = append(matches, scored{gallery: gallery, score: score, order: i})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].order < matches[j].order
	})
	if len(matches) > l.opts.MaxSceneMatches {
		matches = matches[:l.opts.MaxSceneMatches]
	}

	if len(matches) == 0 {
		report.add(LinkResult{
			Outcome:    OutcomeSkipped,
			SceneID:    scene.ID,
			SceneTitle: scene.Title,
			Reason:     "no matching galleries",
			DryRun:     l.opts.DryRun,
		})
		return
	}

	for _, match := range matches {
		result := LinkResult{
			Outcome:      OutcomeLinked,
			SceneID:      scene.ID,
			SceneTitle:   scene.Title,
			GalleryID:    match.gallery.ID,
			GalleryTitle: match.gallery.Title,
			GalleryPath:  match.gallery.Path(),
			Score:        match.score,
			Source:       l.opts.SceneStrategy,
			DryRun:       l.opts.DryRun,
		}
		if l.opts.DryRun {
			l.logger.InfoContext(ctx, "would link gallery to scene",
				logging.String(logging.FieldSceneID, scene.ID),
				logging.String(logging.FieldGalleryID, match.gallery.ID),
				logging.Float64(logging.FieldScore, match.score),
				logging.Bool(logging.FieldDryRun, true),
			)
			report.add(result)
			continue
		}
		if err := l.gateway.AddSceneGalleries(ctx, scene.ID, []string{match.gallery.ID}); err != nil {
			l.logger.WarnContext(ctx, "scene link write failed",
				logging.String(logging.FieldSceneID, scene.ID),
				logging.String(logging.FieldGalleryID, match.gallery.ID),
				logging.Error(err),
			)
			result.Outcome = OutcomeError
			result.Reason = err.Error()
			report.add(result)
			continue
		}
		l.logger.InfoContext(ctx, "gallery linked to scene",
			logging.String(logging.FieldSceneID, scene.ID),
			logging.String(logging.FieldGalleryID, match.gallery.ID),
			logging.Float64(logging.FieldScore, match.score),
		)
		report.add(result)
	}
}

func (l *SceneLinker) scorePair(scene stash.Scene, gallery stash.Gallery) float64 {
	switch l.opts.SceneStrategy {
	case StrategyPathProximity:
		return pathProximity(scene.Path(), gallery.Path())
	case StrategyDirectoryMatch:
		if sameDirectory(scene.Path(), gallery.Path()) {
			return 1.0
		}
		return 0.0
	case StrategyDateProximity:
		return l.dateProximity(scene, gallery)
	default:
		// name_similarity and add_additional share the title comparison.
		return titleSimilarity(scene, gallery)
	}
}

// pathProximity scores filesystem closeness: same directory is a certain
// match, a direct ancestor or descendant directory is strong, anything else
// degrades to the shared-prefix ratio of the two directory paths.
func pathProximity(scenePath, galleryPath string) float64 {
	if scenePath == "" || galleryPath == "" {
		return 0.0
	}
	sceneDir := path.Dir(scenePath)
	galleryDir := path.Dir(galleryPath)
	if sceneDir == galleryDir {
		return 1.0
	}
	if isAncestor(sceneDir, galleryDir) || isAncestor(galleryDir, sceneDir) {
		return 0.8
	}
	return prefixRatio(sceneDir, galleryDir)
}

func sameDirectory(scenePath, galleryPath string) bool {
	if scenePath == "" || galleryPath == "" {
		return false
	}
	return path.Dir(scenePath) == path.Dir(galleryPath)
}

func isAncestor(ancestor, descendant string) bool {
	if ancestor == "/" {
		return strings.HasPrefix(descendant, "/")
	}
	return strings.HasPrefix(descendant, ancestor+"/")
}

// prefixRatio measures shared leading path segments as a fraction of the
// longer directory's depth.
func prefixRatio(a, b string) float64 {
	segA := strings.Split(strings.Trim(a, "/"), "/")
	segB := strings.Split(strings.Trim(b, "/"), "/")
	longest := len(segA)
	if len(segB) > longest {
		longest = len(segB)
	}
	if longest == 0 {
		return 0.0
	}
	shared := 0
	for i := 0; i < len(segA) && i < len(segB); i++ {
		if segA[i] != segB[i] {
			break
		}
		shared++
	}
	return float64(shared) / float64(longest)
}

func titleSimilarity(scene stash.Scene, gallery stash.Gallery) float64 {
	sceneTitle := scene.Title
	if sceneTitle == "" {
		sceneTitle = extract.TitleFromPath(scene.Path())
	}
	galleryTitle := gallery.Title
	if galleryTitle == "" {
		galleryTitle = extract.TitleFromPath(gallery.Path())
	}
	return textmatch.Score(sceneTitle, galleryTitle)
}

// dateProximity compares the entities' dates, preferring the store's date
// field and falling back to a date embedded in the file name.
func (l *SceneLinker) dateProximity(scene stash.Scene, gallery stash.Gallery) float64 {
	sceneDate, ok := scene.ParsedDate()
	if !ok {
		sceneDate, ok = extract.DateFromName(scene.Path())
	}
	if !ok {
		return 0.0
	}
	galleryDate, ok := gallery.ParsedDate()
	if !ok {
		galleryDate, ok = extract.DateFromName(gallery.Path())
	}
	if !ok {
		return 0.0
	}
	return textmatch.DateScore(sceneDate, galleryDate, l.opts.DateToleranceDays)
}
