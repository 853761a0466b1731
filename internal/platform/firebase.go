package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// Firebase deploys through the firebase CLI to Firebase Hosting. webship
// runs the build locally; the CLI uploads the publish directory.
type Firebase struct{}

// NewFirebase creates the Firebase Hosting platform
func NewFirebase() *Firebase {
	return &Firebase{}
}

func (f *Firebase) Name() string        { return "firebase" }
func (f *Firebase) DisplayName() string { return "Firebase Hosting" }
func (f *Firebase) Binary() string      { return "firebase" }
func (f *Firebase) ConfigFile() string  { return "firebase.json" }
func (f *Firebase) RemoteBuild() bool   { return false }
func (f *Firebase) SupportsDraft() bool { return false }
func (f *Firebase) InstallHint() string { return "npm install -g firebase-tools" }
func (f *Firebase) LoginHint() string   { return "firebase login" }

// HasConfig reports whether firebase.json exists in dir
func (f *Firebase) HasConfig(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, f.ConfigFile()))
	return err == nil
}

// firebaseConfig models the firebase.json hosting block
type firebaseConfig struct {
	Hosting firebaseHosting `json:"hosting"`
}

type firebaseHosting struct {
	Public   string            `json:"public"`
	Ignore   []string          `json:"ignore"`
	Rewrites []firebaseRewrite `json:"rewrites,omitempty"`
}

type firebaseRewrite struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// GenerateConfig writes firebase.json, plus .firebaserc when a project
// ID is known so the CLI does not have to ask
func (f *Firebase) GenerateConfig(dir string, settings *Settings) ([]string, error) {
	cfg := firebaseConfig{
		Hosting: firebaseHosting{
			Public: settings.PublishDir,
			Ignore: []string{"firebase.json", "**/.*", "**/node_modules/**"},
		},
	}
	if settings.SPA {
		cfg.Hosting.Rewrites = []firebaseRewrite{{Source: "**", Destination: "/index.html"}}
	}

	if err := writeJSONConfig(filepath.Join(dir, f.ConfigFile()), cfg); err != nil {
		return nil, err
	}
	written := []string{f.ConfigFile()}

	if settings.ProjectID != "" {
		rc := map[string]map[string]string{
			"projects": {"default": settings.ProjectID},
		}
		if err := writeJSONConfig(filepath.Join(dir, ".firebaserc"), rc); err != nil {
			return written, err
		}
		written = append(written, ".firebaserc")
	}

	return written, nil
}

// ExistingSettings recovers the publish directory from an existing
// firebase.json; Firebase Hosting has no build command of its own
func (f *Firebase) ExistingSettings(dir string) (*Existing, error) {
	if !f.HasConfig(dir) {
		return nil, nil
	}

	var cfg firebaseConfig
	if err := readJSONC(filepath.Join(dir, f.ConfigFile()), &cfg); err != nil {
		return nil, err
	}

	return &Existing{PublishDir: cfg.Hosting.Public}, nil
}

// DeployArgs builds the firebase CLI invocation. Hosting has no draft
// mode, so the Prod flag does not change the argv.
func (f *Firebase) DeployArgs(settings *Settings) []string {
	args := []string{"deploy", "--only", "hosting"}
	if settings.ProjectID != "" {
		args = append(args, "--project", settings.ProjectID)
	}
	return args
}

// AuthCheckArgs returns the login listing used to probe authentication
func (f *Firebase) AuthCheckArgs() []string {
	return []string{"login:list"}
}

// AuthOK inspects login:list output; the CLI exits zero even when no
// account is authorized
func (f *Firebase) AuthOK(output string) bool {
	return !strings.Contains(stripANSI(output), "No authorized accounts")
}

// ExtractURL pulls the hosting URL out of the deploy output
func (f *Firebase) ExtractURL(output string) string {
	if url := labeledURL(output, "Hosting URL:"); url != "" {
		return url
	}
	return lastURLWithSuffix(output, ".web.app", ".firebaseapp.com")
}
