package logging

import (
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldGalleryID is the standardized structured logging key for gallery identifiers.
	FieldGalleryID = "gallery_id"
	// FieldSceneID is the standardized structured logging key for scene identifiers.
	FieldSceneID = "scene_id"
	// FieldPerformer is the standardized structured logging key for performer names.
	FieldPerformer = "performer"
	// FieldSource is the standardized structured logging key for candidate source labels.
	FieldSource = "source"
	// FieldScore is the standardized structured logging key for match scores.
	FieldScore = "score"
	// FieldMode is the standardized structured logging key for run modes.
	FieldMode = "mode"
	// FieldDryRun flags results computed without store writes.
	FieldDryRun = "dry_run"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}
