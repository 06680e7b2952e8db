package version

// Version is the current version of the matchmaker.
// This value can be overridden at build time using:
//
//	go build -ldflags="-X 'github.com/pairup/matchmaker/internal/version.Version=v1.0.0'"
var Version = "dev"
