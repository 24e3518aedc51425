package linker

import (
	"context"
	"fmt"
	"math"

	"gallerylinker/internal/stash"
)

// GenerateCoverage surveys the library and reports how many galleries carry
// scene and performer links. A gallery counts as covered when it has at
// least one link of either kind.
func GenerateCoverage(ctx context.Context, gateway stash.Gateway) (*Coverage, error) {
	galleries, err := gateway.FindGalleries(ctx)
	if err != nil {
		return nil, fmt.Errorf("find galleries: %w", err)
	}

	coverage := &Coverage{TotalGalleries: len(galleries)}
	for _, gallery := range galleries {
		hasScenes := len(gallery.Scenes) > 0
		hasPerformers := len(gallery.Performers) > 0
		if hasScenes {
			coverage.LinkedToScenes++
		}
		if hasPerformers {
			coverage.LinkedToPerformers++
		}
		if !hasScenes && !hasPerformers {
			coverage.Unlinked++
		}
	}

	if coverage.TotalGalleries > 0 {
		covered := coverage.TotalGalleries - coverage.Unlinked
		percent := float64(covered) / float64(coverage.TotalGalleries) * 100
		coverage.CoveragePercent = math.Round(percent*100) / 100
	}
	return coverage, nil
}
