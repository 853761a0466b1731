package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/pdmleite/webship/internal/analyzer"
	"github.com/pdmleite/webship/internal/platform"
)

// FileName is the per-project settings file webship reads and writes
const FileName = ".webship.yaml"

// header goes on top of every saved settings file
const header = "# webship project settings. Safe to commit; credentials stay with the vendor CLIs.\n"

// File holds the settings webship persists alongside a project so later
// deploys skip the questions already answered. It never holds secrets.
type File struct {
	Platform       string   `yaml:"platform,omitempty"`
	Framework      string   `yaml:"framework,omitempty"`
	PackageManager string   `yaml:"package_manager,omitempty"`
	BuildCommand   string   `yaml:"build_command,omitempty"`
	PublishDir     string   `yaml:"publish_dir,omitempty"`
	Prod           *bool    `yaml:"prod,omitempty"`
	Scope          string   `yaml:"scope,omitempty"`
	SiteID         string   `yaml:"site_id,omitempty"`
	ProjectID      string   `yaml:"project_id,omitempty"`
	Generated      []string `yaml:"generated,omitempty"`
}

// Load reads the settings file in dir. A missing file returns (nil, nil);
// a malformed one is an error naming the path.
func Load(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &f, nil
}

// Save writes the settings file in dir
func Save(dir string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode project settings: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Debug().Str("file", path).Msg("Saved project settings")
	return nil
}

// Merge overlays the saved fields onto s, leaving unset fields alone
func (f *File) Merge(s *platform.Settings) {
	if f == nil {
		return
	}

	if f.Platform != "" {
		s.Platform = f.Platform
	}
	if f.Framework != "" {
		s.Framework = analyzer.Framework(f.Framework)
	}
	if f.PackageManager != "" {
		s.PackageManager = analyzer.PackageManager(f.PackageManager)
	}
	if f.BuildCommand != "" {
		s.BuildCommand = f.BuildCommand
	}
	if f.PublishDir != "" {
		s.PublishDir = f.PublishDir
	}
	if f.Prod != nil {
		s.Prod = *f.Prod
	}
	if f.Scope != "" {
		s.Scope = f.Scope
	}
	if f.SiteID != "" {
		s.SiteID = f.SiteID
	}
	if f.ProjectID != "" {
		s.ProjectID = f.ProjectID
	}
}

// FromSettings builds a settings file snapshot for saving
func FromSettings(s *platform.Settings, generated []string) *File {
	prod := s.Prod
	f := &File{
		Platform:       s.Platform,
		Framework:      string(s.Framework),
		PackageManager: string(s.PackageManager),
		BuildCommand:   s.BuildCommand,
		PublishDir:     s.PublishDir,
		Prod:           &prod,
		Scope:          s.Scope,
		SiteID:         s.SiteID,
		ProjectID:      s.ProjectID,
	}
	for _, name := range generated {
		f.AddGenerated(name)
	}
	return f
}

// AddGenerated records a config file webship generated, without duplicates
func (f *File) AddGenerated(name string) {
	for _, existing := range f.Generated {
		if existing == name {
			return
		}
	}
	f.Generated = append(f.Generated, name)
}

// HasGenerated reports whether webship generated the named config file.
// Only files on this list are ever offered for overwrite.
func (f *File) HasGenerated(name string) bool {
	if f == nil {
		return false
	}
	for _, existing := range f.Generated {
		if existing == name {
			return true
		}
	}
	return false
}
