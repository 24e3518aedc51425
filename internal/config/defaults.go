package config

const (
	defaultStashURL          = "http://localhost:9999"
	defaultStashTimeout      = 30
	defaultLogDir            = "~/.local/share/gallery-linker/logs"
	defaultHistoryPath       = "~/.local/share/gallery-linker/history.db"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultMatchThreshold    = 0.7
	defaultDateToleranceDays = 7
	defaultSceneStrategy     = "name_similarity"
	defaultMaxSceneMatches   = 3
	defaultReviewTag         = "Gallery Linker: New Performer"
	defaultStashBoxEndpoint  = "https://stashdb.org/graphql"
	defaultStashBoxEnabled   = false
	defaultCreateMissing     = true
	defaultHistoryEnabled    = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Stash: Stash{
			URL:            defaultStashURL,
			TimeoutSeconds: defaultStashTimeout,
		},
		StashBox: StashBox{
			Enabled:  defaultStashBoxEnabled,
			Endpoint: defaultStashBoxEndpoint,
		},
		Linker: Linker{
			MatchThreshold:    defaultMatchThreshold,
			DateToleranceDays: defaultDateToleranceDays,
			CreateMissing:     defaultCreateMissing,
			ReviewTag:         defaultReviewTag,
			SceneStrategy:     defaultSceneStrategy,
			MaxSceneMatches:   defaultMaxSceneMatches,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
	}
}
