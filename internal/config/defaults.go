package config

const (
	defaultBoardBaseURL = "https://api.trello.com/1"

	defaultAniListEndpoint               = "https://graphql.anilist.co/"
	defaultAniListRequestsPerMinute      = 15
	defaultIMDBRequestsPerMinute         = 30
	defaultLibraryThingRequestsPerMinute = 30

	defaultLockPath = "~/.local/share/gwatching/run.lock"

	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Board: Board{
			BaseURL: defaultBoardBaseURL,
		},
		Scraper: Scraper{
			AniListEndpoint:               defaultAniListEndpoint,
			AniListRequestsPerMinute:      defaultAniListRequestsPerMinute,
			IMDBRequestsPerMinute:         defaultIMDBRequestsPerMinute,
			LibraryThingRequestsPerMinute: defaultLibraryThingRequestsPerMinute,
		},
		Sync: Sync{
			LockPath: defaultLockPath,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
