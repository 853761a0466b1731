package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"github.com/pdmleite/webship/internal/analyzer"
	"github.com/pdmleite/webship/internal/gitmeta"
	"github.com/pdmleite/webship/internal/platform"
	"github.com/pdmleite/webship/internal/project"
	"github.com/pdmleite/webship/internal/prompt"
	"github.com/pdmleite/webship/internal/runner"
)

// Default timeouts for the external commands a deployment runs
const (
	DefaultBuildTimeout  = 15 * time.Minute
	DefaultDeployTimeout = 15 * time.Minute
	DefaultCheckTimeout  = 20 * time.Second
)

// Options are the flag-level inputs to one deployment
type Options struct {
	Dir          string
	Platform     string
	Prod         bool
	BuildCommand string
	PublishDir   string
	SkipBuild    bool
	Message      string
	Save         bool
}

// Result summarizes a finished deployment
type Result struct {
	URL       string
	Platform  string
	Prod      bool
	Duration  time.Duration
	Generated []string
}

// ServiceConfig contains configuration for the deploy service
type ServiceConfig struct {
	Prompter        prompt.Prompter
	Tracker         *Tracker
	Out             io.Writer
	DefaultPlatform string
	BuildTimeout    time.Duration
	DeployTimeout   time.Duration
	CheckTimeout    time.Duration
}

// Service walks a project from detection to a deployed URL
type Service struct {
	analyzer        *analyzer.Analyzer
	prompter        prompt.Prompter
	tracker         *Tracker
	out             io.Writer
	defaultPlatform string
	buildTimeout    time.Duration
	deployTimeout   time.Duration
	checkTimeout    time.Duration
}

// NewService creates a new deploy service
func NewService(config ServiceConfig) *Service {
	s := &Service{
		analyzer:        analyzer.New(),
		prompter:        config.Prompter,
		tracker:         config.Tracker,
		out:             config.Out,
		defaultPlatform: config.DefaultPlatform,
		buildTimeout:    config.BuildTimeout,
		deployTimeout:   config.DeployTimeout,
		checkTimeout:    config.CheckTimeout,
	}

	if s.prompter == nil {
		s.prompter = prompt.New(true)
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.buildTimeout <= 0 {
		s.buildTimeout = DefaultBuildTimeout
	}
	if s.deployTimeout <= 0 {
		s.deployTimeout = DefaultDeployTimeout
	}
	if s.checkTimeout <= 0 {
		s.checkTimeout = DefaultCheckTimeout
	}

	return s
}

// Deploy orchestrates the entire deployment:
//  1. Analyze the project
//  2. Resolve settings from flags, saved settings and detection
//  3. Check the vendor CLI is installed and logged in
//  4. Generate the platform config when needed
//  5. Run the local build
//  6. Hand off to the vendor CLI and extract the deployed URL
//  7. Record the outcome in history
func (s *Service) Deploy(ctx context.Context, opts Options) (result *Result, err error) {
	dir, err := resolveDir(opts.Dir)
	if err != nil {
		return nil, err
	}

	// Step 1: analyze the project
	analysis, err := s.analyzer.Analyze(dir)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(s.out, "Detected %s project using %s\n", analysis.FrameworkName, analysis.PackageManager)

	projFile, err := project.Load(dir)
	if err != nil {
		return nil, err
	}
	firstRun := projFile == nil

	if last := s.tracker.Last(ctx, dir); last != nil {
		fmt.Fprintf(s.out, "Last deploy: %s on %s (%s)\n",
			last.Status, last.Platform, last.CreatedAt.Format("2006-01-02 15:04"))
	}

	// Step 2: resolve settings, later sources winning
	settings := resolveSettings(analysis, projFile, opts)

	plat, err := s.selectPlatform(&settings)
	if err != nil {
		return nil, err
	}

	s.applyExistingConfig(dir, plat, &settings, projFile, opts)

	prodSet := opts.Prod || (projFile != nil && projFile.Prod != nil)
	if err = s.confirmSettings(&settings, plat, firstRun, prodSet); err != nil {
		return nil, err
	}

	meta := gitmeta.Describe(dir)
	if meta.ShortSHA != "" {
		log.Debug().Str("commit", meta.ShortSHA).Str("branch", meta.Branch).Msg("Git metadata collected")
	}
	if meta.Dirty {
		fmt.Fprintf(s.out, "%s Working tree has uncommitted changes\n", color.YellowString("!"))
	}

	start := time.Now()

	// Every attempt from here on ends up in history, success or not.
	// The record is written on a fresh context so a timed-out deploy
	// still gets stored.
	defer func() {
		record := buildRecord(dir, analysis, &settings, meta, result, time.Since(start), err)
		s.tracker.Record(context.Background(), record)
	}()

	// Step 3: vendor CLI present and logged in
	cli := runner.New(plat.Binary())
	if !cli.Available() {
		return nil, fmt.Errorf("%s CLI (%s) not found: install it with `%s`, then `webship doctor` to verify",
			plat.DisplayName(), plat.Binary(), plat.InstallHint())
	}
	if err = s.checkAuth(ctx, cli, plat); err != nil {
		return nil, err
	}

	// Step 4: platform config
	generated, err := s.ensureConfig(dir, plat, &settings, projFile)
	if err != nil {
		return nil, err
	}

	// Step 5: local build
	if err = s.runBuild(ctx, dir, plat, &settings); err != nil {
		return nil, err
	}
	if err = verifyPublishDir(dir, plat, &settings); err != nil {
		return nil, err
	}

	// Step 6: deploy through the vendor CLI
	url, err := s.runDeploy(ctx, dir, cli, plat, &settings)
	if err != nil {
		return nil, err
	}

	result = &Result{
		URL:       url,
		Platform:  plat.Name(),
		Prod:      settings.Prod,
		Duration:  time.Since(start),
		Generated: generated,
	}

	s.saveSettings(dir, &settings, projFile, generated, firstRun, opts.Save)
	s.printSummary(result)

	return result, nil
}

// Setup walks the full questionnaire and writes the platform config and
// settings file without deploying anything
func (s *Service) Setup(ctx context.Context, opts Options, force bool) error {
	dir, err := resolveDir(opts.Dir)
	if err != nil {
		return err
	}

	analysis, err := s.analyzer.Analyze(dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Detected %s project using %s\n", analysis.FrameworkName, analysis.PackageManager)

	projFile, err := project.Load(dir)
	if err != nil {
		return err
	}
	if projFile != nil && !force {
		return fmt.Errorf("%s already exists, use --force to reconfigure", project.FileName)
	}

	settings := resolveSettings(analysis, projFile, opts)

	plat, err := s.selectPlatform(&settings)
	if err != nil {
		return err
	}

	s.applyExistingConfig(dir, plat, &settings, projFile, opts)

	if err := s.confirmSettings(&settings, plat, true, opts.Prod); err != nil {
		return err
	}

	generated, err := s.ensureConfig(dir, plat, &settings, projFile)
	if err != nil {
		return err
	}

	file := project.FromSettings(&settings, generated)
	if projFile != nil {
		for _, name := range projFile.Generated {
			file.AddGenerated(name)
		}
	}
	if err := project.Save(dir, file); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "\n%s Wrote %s\n", color.GreenString("✔"), project.FileName)
	fmt.Fprintln(s.out, "  Run `webship deploy` when you are ready to ship.")
	return nil
}

// resolveDir normalizes the project directory, defaulting to the
// current one
func resolveDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project directory: %w", err)
	}

	return abs, nil
}

// resolveSettings layers detected defaults, saved settings and flags,
// with the later sources winning
func resolveSettings(a *analyzer.Analysis, f *project.File, opts Options) platform.Settings {
	settings := platform.Settings{
		Framework:      a.Framework,
		FrameworkName:  a.FrameworkName,
		PackageManager: a.PackageManager,
		BuildCommand:   a.BuildCommand,
		PublishDir:     a.PublishDir,
		SPA:            a.SPA,
	}

	f.Merge(&settings)

	if opts.Platform != "" {
		settings.Platform = opts.Platform
	}
	if opts.BuildCommand != "" {
		settings.BuildCommand = opts.BuildCommand
	}
	if opts.PublishDir != "" {
		settings.PublishDir = opts.PublishDir
	}
	if opts.Prod {
		settings.Prod = true
	}
	if opts.SkipBuild {
		settings.SkipBuild = true
	}
	if opts.Message != "" {
		settings.Message = opts.Message
	}

	return settings
}

// selectPlatform resolves the target platform, asking when nothing
// picked one
func (s *Service) selectPlatform(settings *platform.Settings) (platform.Platform, error) {
	if settings.Platform == "" {
		choice, err := s.prompter.Select("Which platform do you want to deploy to?", platform.Names(), s.defaultPlatform)
		if err != nil {
			if errors.Is(err, prompt.ErrNoDefault) {
				return nil, errors.New("no platform selected: pass --platform or set defaults.platform in the webship config")
			}
			return nil, err
		}
		settings.Platform = choice
	}

	return platform.ForName(settings.Platform)
}

// applyExistingConfig folds build settings out of a platform config the
// project already carries. Flags and saved settings still win.
func (s *Service) applyExistingConfig(dir string, plat platform.Platform, settings *platform.Settings, f *project.File, opts Options) {
	existing, err := plat.ExistingSettings(dir)
	if err != nil {
		log.Warn().Err(err).Str("file", plat.ConfigFile()).Msg("Could not read existing platform config")
		return
	}
	if existing == nil {
		return
	}

	buildPinned := opts.BuildCommand != "" || (f != nil && f.BuildCommand != "")
	publishPinned := opts.PublishDir != "" || (f != nil && f.PublishDir != "")

	if !buildPinned && existing.BuildCommand != "" {
		settings.BuildCommand = existing.BuildCommand
	}
	if !publishPinned && existing.PublishDir != "" {
		settings.PublishDir = existing.PublishDir
	}
}

// confirmSettings asks for whatever the other sources did not pin down.
// Repeat runs with a saved settings file only get the production
// question.
func (s *Service) confirmSettings(settings *platform.Settings, plat platform.Platform, firstRun, prodSet bool) error {
	if firstRun {
		buildCommand, err := s.prompter.Input("Build command (leave empty to skip the build step)", settings.BuildCommand)
		if err != nil {
			return err
		}
		settings.BuildCommand = buildCommand

		publishDir, err := s.prompter.Input("Publish directory", settings.PublishDir)
		if err != nil {
			return err
		}
		settings.PublishDir = publishDir

		if err := s.askPlatformIdentifier(settings, plat); err != nil {
			return err
		}
	}

	if !prodSet {
		if !plat.SupportsDraft() {
			// Nothing to ask; the platform only deploys live
			settings.Prod = true
			return nil
		}
		prod, err := s.prompter.Confirm("Deploy to production?", false)
		if err != nil {
			return err
		}
		settings.Prod = prod
	}

	return nil
}

// askPlatformIdentifier collects the optional account-level identifier
// each platform understands. Empty answers defer to whatever the vendor
// CLI is linked to.
func (s *Service) askPlatformIdentifier(settings *platform.Settings, plat platform.Platform) error {
	var err error
	switch plat.Name() {
	case "vercel":
		settings.Scope, err = s.prompter.Input("Vercel team scope (leave empty for your personal account)", settings.Scope)
	case "netlify":
		settings.SiteID, err = s.prompter.Input("Netlify site ID (leave empty to use the linked site)", settings.SiteID)
	case "firebase":
		settings.ProjectID, err = s.prompter.Input("Firebase project ID (leave empty to use the CLI default)", settings.ProjectID)
	}
	return err
}

// checkAuth probes the vendor CLI login state before spending time on a
// build. Some CLIs exit zero while logged out, so the output is
// inspected as well.
func (s *Service) checkAuth(ctx context.Context, cli *runner.Runner, plat platform.Platform) error {
	checkCtx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	result, err := cli.RunQuiet(checkCtx, "", plat.AuthCheckArgs()...)
	if err != nil {
		log.Debug().Err(err).Str("platform", plat.Name()).Msg("Auth check failed")
		return fmt.Errorf("not logged in to %s: run `%s` first", plat.DisplayName(), plat.LoginHint())
	}
	if !plat.AuthOK(result.Stdout + result.Stderr) {
		return fmt.Errorf("not logged in to %s: run `%s` first", plat.DisplayName(), plat.LoginHint())
	}

	return nil
}

// ensureConfig writes the platform config unless the project already
// has one that webship does not own
func (s *Service) ensureConfig(dir string, plat platform.Platform, settings *platform.Settings, f *project.File) ([]string, error) {
	if plat.HasConfig(dir) {
		if !f.HasGenerated(plat.ConfigFile()) {
			log.Debug().Str("file", plat.ConfigFile()).Msg("Keeping hand-written platform config")
			return nil, nil
		}

		overwrite, err := prompt.ConfirmOverwrite(s.prompter, plat.ConfigFile())
		if err != nil {
			return nil, err
		}
		if !overwrite {
			return nil, nil
		}
	}

	written, err := plat.GenerateConfig(dir, settings)
	if err != nil {
		return nil, err
	}

	for _, name := range written {
		fmt.Fprintf(s.out, "Generated %s\n", name)
	}

	return written, nil
}

// runBuild runs the project's build command locally. Platforms that
// build remotely skip this, as do projects with nothing to build.
func (s *Service) runBuild(ctx context.Context, dir string, plat platform.Platform, settings *platform.Settings) error {
	switch {
	case plat.RemoteBuild():
		log.Debug().Str("platform", plat.Name()).Msg("Platform builds remotely, skipping local build")
		return nil
	case settings.SkipBuild:
		fmt.Fprintln(s.out, "Skipping build")
		return nil
	case settings.BuildCommand == "":
		log.Debug().Msg("No build command, deploying the directory as-is")
		return nil
	}

	binary, args, err := runner.SplitCommand(settings.BuildCommand)
	if err != nil {
		return fmt.Errorf("invalid build command %q: %w", settings.BuildCommand, err)
	}

	build := runner.New(binary)
	if !build.Available() {
		return fmt.Errorf("build tool %s not found on PATH", binary)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "node_modules")); os.IsNotExist(statErr) {
		fmt.Fprintf(s.out, "%s node_modules is missing; if the build fails, run `%s` first\n",
			color.YellowString("!"), analyzer.InstallCommand(settings.PackageManager))
	}

	fmt.Fprintf(s.out, "Building with `%s`\n", settings.BuildCommand)

	buildCtx, cancel := context.WithTimeout(ctx, s.buildTimeout)
	defer cancel()

	if _, err := build.Run(buildCtx, dir, args, s.out); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	return nil
}

// verifyPublishDir makes sure there is something to upload before the
// vendor CLI is invoked. Remote-build platforms upload sources instead.
func verifyPublishDir(dir string, plat platform.Platform, settings *platform.Settings) error {
	if plat.RemoteBuild() {
		return nil
	}

	publish := filepath.Join(dir, settings.PublishDir)
	info, err := os.Stat(publish)
	if err != nil {
		return fmt.Errorf("publish directory %s not found, run the build or adjust the publish directory", settings.PublishDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("publish path %s is not a directory", settings.PublishDir)
	}

	return nil
}

// runDeploy hands the project to the vendor CLI and pulls the deployed
// URL out of its output
func (s *Service) runDeploy(ctx context.Context, dir string, cli *runner.Runner, plat platform.Platform, settings *platform.Settings) (string, error) {
	if !settings.Prod && !plat.SupportsDraft() {
		// Saved settings can still carry prod: false for such a platform
		fmt.Fprintf(s.out, "%s has no draft deploys, deploying live\n", plat.DisplayName())
		settings.Prod = true
	}

	target := "draft"
	if settings.Prod {
		target = "production"
	}
	fmt.Fprintf(s.out, "Deploying to %s (%s)\n", plat.DisplayName(), target)

	deployCtx, cancel := context.WithTimeout(ctx, s.deployTimeout)
	defer cancel()

	result, err := cli.Run(deployCtx, dir, plat.DeployArgs(settings), s.out)
	if err != nil {
		return "", err
	}

	url := plat.ExtractURL(result.Stdout + "\n" + result.Stderr)
	if url == "" {
		log.Warn().Str("platform", plat.Name()).Msg("Could not find the deployed URL in the CLI output")
	}

	return url, nil
}

// saveSettings persists answers for the next run. First runs offer to
// save so repeat deploys skip the questionnaire; at minimum, any config
// files generated this run are recorded as webship-owned.
func (s *Service) saveSettings(dir string, settings *platform.Settings, old *project.File, generated []string, firstRun, forced bool) {
	save := forced
	if !save && firstRun {
		answer, err := s.prompter.Confirm(fmt.Sprintf("Save these settings to %s for next time?", project.FileName), true)
		if err == nil {
			save = answer
		}
	}

	if !save {
		if old == nil || len(generated) == 0 {
			return
		}
		added := false
		for _, name := range generated {
			if !old.HasGenerated(name) {
				old.AddGenerated(name)
				added = true
			}
		}
		if added {
			if err := project.Save(dir, old); err != nil {
				log.Warn().Err(err).Msg("Failed to update project settings")
			}
		}
		return
	}

	file := project.FromSettings(settings, generated)
	if old != nil {
		for _, name := range old.Generated {
			file.AddGenerated(name)
		}
	}
	if err := project.Save(dir, file); err != nil {
		log.Warn().Err(err).Msg("Failed to save project settings")
	}
}

// printSummary reports the outcome in one glance
func (s *Service) printSummary(result *Result) {
	fmt.Fprintf(s.out, "\n%s Deployed in %s\n", color.GreenString("✔"), result.Duration.Round(time.Second))
	if result.URL != "" {
		fmt.Fprintf(s.out, "  %s\n", color.CyanString(result.URL))
	} else {
		fmt.Fprintln(s.out, "  Check the output above for the deployed URL")
	}
}
