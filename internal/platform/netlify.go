package platform

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Netlify deploys through the netlify CLI. webship runs the build
// locally, then hands the publish directory to the CLI with --no-build.
type Netlify struct{}

// NewNetlify creates the Netlify platform
func NewNetlify() *Netlify {
	return &Netlify{}
}

func (n *Netlify) Name() string        { return "netlify" }
func (n *Netlify) DisplayName() string { return "Netlify" }
func (n *Netlify) Binary() string      { return "netlify" }
func (n *Netlify) ConfigFile() string  { return "netlify.toml" }
func (n *Netlify) RemoteBuild() bool   { return false }
func (n *Netlify) SupportsDraft() bool { return true }
func (n *Netlify) InstallHint() string { return "npm install -g netlify-cli" }
func (n *Netlify) LoginHint() string   { return "netlify login" }

// HasConfig reports whether netlify.toml exists in dir
func (n *Netlify) HasConfig(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, n.ConfigFile()))
	return err == nil
}

// netlifyConfig models the netlify.toml sections webship reads and writes
type netlifyConfig struct {
	Build     netlifyBuild      `toml:"build"`
	Redirects []netlifyRedirect `toml:"redirects,omitempty"`
}

type netlifyBuild struct {
	Command string `toml:"command,omitempty"`
	Publish string `toml:"publish"`
}

type netlifyRedirect struct {
	From   string `toml:"from"`
	To     string `toml:"to"`
	Status int    `toml:"status"`
}

// GenerateConfig writes netlify.toml for the project. Single-page apps
// get a history-API redirect so client-side routes resolve.
func (n *Netlify) GenerateConfig(dir string, settings *Settings) ([]string, error) {
	cfg := netlifyConfig{
		Build: netlifyBuild{
			Command: settings.BuildCommand,
			Publish: settings.PublishDir,
		},
	}
	if settings.SPA {
		cfg.Redirects = []netlifyRedirect{{From: "/*", To: "/index.html", Status: 200}}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", n.ConfigFile(), err)
	}

	if err := writeConfigFile(filepath.Join(dir, n.ConfigFile()), buf.Bytes()); err != nil {
		return nil, err
	}

	return []string{n.ConfigFile()}, nil
}

// ExistingSettings recovers build settings from an existing netlify.toml
func (n *Netlify) ExistingSettings(dir string) (*Existing, error) {
	if !n.HasConfig(dir) {
		return nil, nil
	}

	var cfg netlifyConfig
	path := filepath.Join(dir, n.ConfigFile())
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &Existing{
		BuildCommand: cfg.Build.Command,
		PublishDir:   cfg.Build.Publish,
	}, nil
}

// DeployArgs builds the netlify CLI invocation
func (n *Netlify) DeployArgs(settings *Settings) []string {
	args := []string{"deploy", "--dir", settings.PublishDir, "--no-build"}
	if settings.Prod {
		args = append(args, "--prod")
	}
	if settings.Message != "" {
		args = append(args, "--message", settings.Message)
	}
	if settings.SiteID != "" {
		args = append(args, "--site", settings.SiteID)
	}
	return args
}

// AuthCheckArgs returns an invocation that fails when logged out
func (n *Netlify) AuthCheckArgs() []string {
	return []string{"status"}
}

// AuthOK inspects status output for the logged-out marker
func (n *Netlify) AuthOK(output string) bool {
	return !strings.Contains(stripANSI(output), "Not logged in")
}

// ExtractURL pulls the site URL out of the deploy output
func (n *Netlify) ExtractURL(output string) string {
	if url := labeledURL(output, "Website URL:", "Website Draft URL:", "Unique Deploy URL:"); url != "" {
		return url
	}
	return lastURLWithSuffix(output, ".netlify.app")
}
