package linker

import "gallerylinker/internal/config"

// Options carries one run's configuration. A single immutable value is
// threaded through the whole pass so runs are reproducible.
type Options struct {
	// MatchThreshold is the closed lower bound for accepting a candidate:
	// score >= threshold links, score < threshold is silently discarded.
	MatchThreshold    float64
	DateToleranceDays int
	CreateMissing     bool
	UseStashBox       bool
	DryRun            bool
	// ReviewTag is applied to performers this tool creates.
	ReviewTag string
	// SceneStrategy selects the scene-gallery pairing heuristic.
	SceneStrategy string
	// MaxSceneMatches caps galleries linked per scene in one run.
	MaxSceneMatches int
	PathDenylist    []string
}

// FromConfig builds run options from loaded configuration. Flag overrides
// are applied by the caller afterwards.
func FromConfig(cfg *config.Config) Options {
	return Options{
		MatchThreshold:    cfg.Linker.MatchThreshold,
		DateToleranceDays: cfg.Linker.DateToleranceDays,
		CreateMissing:     cfg.Linker.CreateMissing,
		UseStashBox:       cfg.StashBox.Enabled,
		ReviewTag:         cfg.Linker.ReviewTag,
		SceneStrategy:     cfg.Linker.SceneStrategy,
		MaxSceneMatches:   cfg.Linker.MaxSceneMatches,
		PathDenylist:      cfg.Linker.PathDenylist,
	}
}

func (o Options) normalized() Options {
	if o.MatchThreshold <= 0 || o.MatchThreshold > 1 {
		o.MatchThreshold = 0.7
	}
	if o.DateToleranceDays <= 0 {
		o.DateToleranceDays = 7
	}
	if o.SceneStrategy == "" {
		o.SceneStrategy = StrategyNameSimilarity
	}
	if o.MaxSceneMatches <= 0 {
		o.MaxSceneMatches = 3
	}
	if o.ReviewTag == "" {
		o.ReviewTag = "Gallery Linker: New Performer"
	}
	return o
}
