package analyzer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Analyzer inspects a project directory to detect its framework,
// package manager, and build settings
type Analyzer struct {
	frameworkDetector      *FrameworkDetector
	packageManagerDetector *PackageManagerDetector
}

// New creates a new analyzer
func New() *Analyzer {
	return &Analyzer{
		frameworkDetector:      NewFrameworkDetector(),
		packageManagerDetector: NewPackageManagerDetector(),
	}
}

// Analyze inspects a project directory and returns its detected settings
func (a *Analyzer) Analyze(dir string) (*Analysis, error) {
	log.Debug().Str("dir", dir).Msg("Analyzing project")

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("project directory does not exist: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	pkg, err := ParsePackageJSON(dir)
	if err != nil {
		return nil, err
	}

	framework := a.frameworkDetector.Detect(dir, pkg)
	manager := a.packageManagerDetector.Detect(dir)
	defaults := GetFrameworkInfo(framework)

	result := &Analysis{
		ProjectName:    projectName(dir, pkg),
		Framework:      framework,
		FrameworkName:  defaults.Name,
		PackageManager: manager,
		PublishDir:     defaults.PublishDir,
		DevPort:        defaults.DevPort,
		SPA:            defaults.SPA,
	}

	if pkg != nil {
		result.Dependencies = pkg.Dependencies
		result.DevDependencies = pkg.DevDependencies
		result.NodeVersion = pkg.Engines.Node
		if pkg.HasScript("build") {
			result.HasBuildScript = true
			result.BuildCommand = BuildCommand(manager, "build")
		}
	}

	log.Info().
		Str("framework", string(result.Framework)).
		Str("package_manager", string(result.PackageManager)).
		Str("publish_dir", result.PublishDir).
		Bool("has_build_script", result.HasBuildScript).
		Msg("Project analyzed")

	return result, nil
}

// projectName prefers the manifest name over the directory base name
func projectName(dir string, pkg *PackageJSON) string {
	if pkg != nil && pkg.Name != "" {
		return pkg.Name
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return filepath.Base(abs)
}
