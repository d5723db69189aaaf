package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/rengeos/house-overlay/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/rengeos/house-overlay/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/rengeos/house-overlay/internal/version.Date={{.Date}}
)
