package platform

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pdmleite/webship/internal/analyzer"
)

// vercelFrameworks maps detected frameworks to the framework slugs
// vercel.json accepts
var vercelFrameworks = map[analyzer.Framework]string{
	analyzer.FrameworkNext:       "nextjs",
	analyzer.FrameworkNuxt:       "nuxtjs",
	analyzer.FrameworkSvelteKit:  "sveltekit",
	analyzer.FrameworkRemix:      "remix",
	analyzer.FrameworkAngular:    "angular",
	analyzer.FrameworkGatsby:     "gatsby",
	analyzer.FrameworkAstro:      "astro",
	analyzer.FrameworkDocusaurus: "docusaurus-2",
	analyzer.FrameworkEleventy:   "eleventy",
	analyzer.FrameworkEmber:      "ember",
	analyzer.FrameworkCRA:        "create-react-app",
	analyzer.FrameworkVueCLI:     "vue",
	analyzer.FrameworkSvelte:     "svelte",
	analyzer.FrameworkVite:       "vite",
}

// Vercel deploys through the vercel CLI. The build runs on the platform:
// the CLI uploads sources and Vercel builds remotely, so webship skips
// the local build step for it.
type Vercel struct{}

// NewVercel creates the Vercel platform
func NewVercel() *Vercel {
	return &Vercel{}
}

func (v *Vercel) Name() string        { return "vercel" }
func (v *Vercel) DisplayName() string { return "Vercel" }
func (v *Vercel) Binary() string      { return "vercel" }
func (v *Vercel) ConfigFile() string  { return "vercel.json" }
func (v *Vercel) RemoteBuild() bool   { return true }
func (v *Vercel) SupportsDraft() bool { return true }
func (v *Vercel) InstallHint() string { return "npm install -g vercel" }
func (v *Vercel) LoginHint() string   { return "vercel login" }

// HasConfig reports whether vercel.json exists in dir
func (v *Vercel) HasConfig(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, v.ConfigFile()))
	return err == nil
}

// vercelConfig is the subset of vercel.json webship reads and writes
type vercelConfig struct {
	Framework       string `json:"framework,omitempty"`
	BuildCommand    string `json:"buildCommand,omitempty"`
	OutputDirectory string `json:"outputDirectory,omitempty"`
	CleanUrls       bool   `json:"cleanUrls,omitempty"`
}

// GenerateConfig writes vercel.json for the project
func (v *Vercel) GenerateConfig(dir string, settings *Settings) ([]string, error) {
	cfg := vercelConfig{}

	if slug, ok := vercelFrameworks[settings.Framework]; ok {
		cfg.Framework = slug
		cfg.BuildCommand = settings.BuildCommand
		cfg.OutputDirectory = settings.PublishDir
	} else {
		// Static sites: no build, pretty URLs
		cfg.CleanUrls = true
	}

	if err := writeJSONConfig(filepath.Join(dir, v.ConfigFile()), cfg); err != nil {
		return nil, err
	}

	return []string{v.ConfigFile()}, nil
}

// ExistingSettings recovers build settings from an existing vercel.json
func (v *Vercel) ExistingSettings(dir string) (*Existing, error) {
	if !v.HasConfig(dir) {
		return nil, nil
	}

	var cfg vercelConfig
	if err := readJSONC(filepath.Join(dir, v.ConfigFile()), &cfg); err != nil {
		return nil, err
	}

	return &Existing{
		BuildCommand: cfg.BuildCommand,
		PublishDir:   cfg.OutputDirectory,
	}, nil
}

// DeployArgs builds the vercel CLI invocation
func (v *Vercel) DeployArgs(settings *Settings) []string {
	args := []string{"deploy", "--yes"}
	if settings.Prod {
		args = append(args, "--prod")
	}
	if settings.Scope != "" {
		args = append(args, "--scope", settings.Scope)
	}
	return args
}

// AuthCheckArgs returns an invocation that fails when logged out
func (v *Vercel) AuthCheckArgs() []string {
	return []string{"whoami"}
}

// AuthOK reports whether whoami output names an account
func (v *Vercel) AuthOK(output string) bool {
	return strings.TrimSpace(stripANSI(output)) != ""
}

// ExtractURL pulls the deployment URL out of the CLI output. The CLI
// prints inspect and preview links first and the deployment URL last.
func (v *Vercel) ExtractURL(output string) string {
	return lastURLWithSuffix(output, ".vercel.app")
}
