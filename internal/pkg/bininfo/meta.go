package bininfo

import "runtime"

// Set with -ldflags "-X exusiai.dev/drawbank/internal/pkg/bininfo.Version=v1.2.3".
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Product identifies drawbank in User-Agent and Server headers.
func Product() string {
	return "drawbank/" + Version
}

// Info is the build information reported by `/_/bininfo`.
func Info() map[string]string {
	return map[string]string{
		"version": Version,
		"build":   BuildTime,
		"go":      runtime.Version(),
	}
}
