package config

// DefaultConfig returns the minimal built-in configuration used when no
// configuration file exists or the file has fatal validation errors and no
// previously valid snapshot is available.
func DefaultConfig() *Config {
	return &Config{
		SchemaVersion: 1,
		Title:         "Fredon Menu",
		Icon:          "fredon-menu",
		Quote:         "Your productivity companion",
		Launchables: []Launchable{
			{
				ID:      "file-manager",
				Name:    "Files",
				Icon:    "system-file-manager",
				Command: "xdg-open .",
				Kind:    KindShell,
				Enabled: true,
			},
		},
	}
}
