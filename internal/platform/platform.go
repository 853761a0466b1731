package platform

import (
	"errors"
	"fmt"

	"github.com/pdmleite/webship/internal/analyzer"
)

// ErrUnknownPlatform indicates a platform name outside the supported set
var ErrUnknownPlatform = errors.New("unknown platform")

// Settings are the resolved inputs for one deployment
type Settings struct {
	Platform       string
	Framework      analyzer.Framework
	FrameworkName  string
	PackageManager analyzer.PackageManager
	BuildCommand   string
	PublishDir     string
	Prod           bool
	SkipBuild      bool
	Message        string
	SPA            bool

	// Platform-specific identifiers, all optional; the vendor CLIs
	// prompt for whatever is missing.
	Scope     string // vercel team scope
	SiteID    string // netlify site
	ProjectID string // firebase project
}

// Existing holds settings recovered from a platform config file that was
// already present in the project
type Existing struct {
	BuildCommand string
	PublishDir   string
}

// Platform is one supported hosting provider, backed by its vendor CLI
type Platform interface {
	// Name is the stable identifier used in flags and saved settings
	Name() string
	// DisplayName is the human-facing label
	DisplayName() string
	// Binary is the vendor CLI binary name looked up on PATH
	Binary() string
	// ConfigFile is the platform config file the provider owns
	ConfigFile() string
	// HasConfig reports whether the config file exists in dir
	HasConfig(dir string) bool
	// GenerateConfig writes the platform config for the given settings
	// and returns the names of the files it wrote
	GenerateConfig(dir string, settings *Settings) ([]string, error)
	// ExistingSettings recovers build settings from a config file already
	// in the project; nil when no config exists
	ExistingSettings(dir string) (*Existing, error)
	// DeployArgs builds the vendor CLI argv for a deployment
	DeployArgs(settings *Settings) []string
	// AuthCheckArgs is an invocation that only succeeds when logged in
	AuthCheckArgs() []string
	// AuthOK inspects auth check output for logged-out markers that the
	// vendor CLI reports with a zero exit status
	AuthOK(output string) bool
	// RemoteBuild reports whether the platform runs the build itself
	RemoteBuild() bool
	// SupportsDraft reports whether the platform distinguishes draft
	// deploys from production ones
	SupportsDraft() bool
	// ExtractURL pulls the deployed site URL out of the CLI output
	ExtractURL(output string) string
	// InstallHint tells the user how to install the vendor CLI
	InstallHint() string
	// LoginHint tells the user how to authenticate
	LoginHint() string
}

// All returns the supported platforms in stable display order
func All() []Platform {
	return []Platform{NewVercel(), NewNetlify(), NewFirebase()}
}

// Names returns the platform names in the same order as All
func Names() []string {
	platforms := All()
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, p.Name())
	}
	return names
}

// ForName returns the platform registered under name
func ForName(name string) (Platform, error) {
	for _, p := range All() {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (supported: vercel, netlify, firebase)", ErrUnknownPlatform, name)
}
