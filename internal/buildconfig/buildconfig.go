package buildconfig

// Set at link time:
//
//	go build -ldflags "-X github.com/alito/opencog/internal/buildconfig.version=v1.2.0"
var (
	version = "dev"
	commit  = "unknown"
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// VersionInfo is reported by /health and `pln version`.
func VersionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
	}
}
