package deploy

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	sqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pdmleite/webship/internal/analyzer"
	"github.com/pdmleite/webship/internal/gitmeta"
	"github.com/pdmleite/webship/internal/platform"
	"github.com/pdmleite/webship/internal/project"
	"github.com/pdmleite/webship/internal/prompt"
	"github.com/pdmleite/webship/internal/state"
)

// stubPrompter answers questions from scripts and records what was asked
type stubPrompter struct {
	selectAnswers  []string
	inputAnswers   []string
	confirmAnswers []bool
	asked          []string
}

func (p *stubPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	p.asked = append(p.asked, message)
	if len(p.selectAnswers) == 0 {
		if defaultValue == "" {
			return "", errors.New("no scripted answer for: " + message)
		}
		return defaultValue, nil
	}
	answer := p.selectAnswers[0]
	p.selectAnswers = p.selectAnswers[1:]
	return answer, nil
}

func (p *stubPrompter) Input(message, defaultValue string) (string, error) {
	p.asked = append(p.asked, message)
	if len(p.inputAnswers) == 0 {
		return defaultValue, nil
	}
	answer := p.inputAnswers[0]
	p.inputAnswers = p.inputAnswers[1:]
	return answer, nil
}

func (p *stubPrompter) Confirm(message string, defaultYes bool) (bool, error) {
	p.asked = append(p.asked, message)
	if len(p.confirmAnswers) == 0 {
		return defaultYes, nil
	}
	answer := p.confirmAnswers[0]
	p.confirmAnswers = p.confirmAnswers[1:]
	return answer, nil
}

func newStubService(p prompt.Prompter) *Service {
	return NewService(ServiceConfig{Prompter: p, Out: &bytes.Buffer{}})
}

func viteAnalysis() *analyzer.Analysis {
	return &analyzer.Analysis{
		ProjectName:    "demo",
		Framework:      analyzer.FrameworkVite,
		FrameworkName:  "Vite",
		PackageManager: analyzer.PackageManagerNPM,
		BuildCommand:   "npm run build",
		PublishDir:     "dist",
		SPA:            true,
	}
}

func TestResolveSettings_DetectionFallback(t *testing.T) {
	settings := resolveSettings(viteAnalysis(), nil, Options{})

	if settings.BuildCommand != "npm run build" {
		t.Errorf("expected detected build command, got %q", settings.BuildCommand)
	}
	if settings.PublishDir != "dist" {
		t.Errorf("expected detected publish dir, got %q", settings.PublishDir)
	}
	if !settings.SPA {
		t.Error("expected SPA flag from detection")
	}
	if settings.Platform != "" {
		t.Errorf("expected no platform, got %q", settings.Platform)
	}
}

func TestResolveSettings_SavedSettingsBeatDetection(t *testing.T) {
	file := &project.File{
		Platform:     "netlify",
		BuildCommand: "yarn build",
		PublishDir:   "out",
	}

	settings := resolveSettings(viteAnalysis(), file, Options{})

	if settings.Platform != "netlify" {
		t.Errorf("expected platform from saved settings, got %q", settings.Platform)
	}
	if settings.BuildCommand != "yarn build" {
		t.Errorf("expected saved build command, got %q", settings.BuildCommand)
	}
	if settings.PublishDir != "out" {
		t.Errorf("expected saved publish dir, got %q", settings.PublishDir)
	}
}

func TestResolveSettings_FlagsBeatEverything(t *testing.T) {
	file := &project.File{BuildCommand: "yarn build", PublishDir: "out"}
	opts := Options{
		Platform:   "firebase",
		PublishDir: "public",
		Prod:       true,
		SkipBuild:  true,
		Message:    "release",
	}

	settings := resolveSettings(viteAnalysis(), file, opts)

	if settings.Platform != "firebase" {
		t.Errorf("expected platform from flag, got %q", settings.Platform)
	}
	if settings.PublishDir != "public" {
		t.Errorf("expected publish dir from flag, got %q", settings.PublishDir)
	}
	if settings.BuildCommand != "yarn build" {
		t.Errorf("expected saved build command to survive, got %q", settings.BuildCommand)
	}
	if !settings.Prod || !settings.SkipBuild {
		t.Error("expected prod and skip-build flags to stick")
	}
	if settings.Message != "release" {
		t.Errorf("expected deploy message, got %q", settings.Message)
	}
}

func TestSelectPlatform_UsesPromptAnswer(t *testing.T) {
	stub := &stubPrompter{selectAnswers: []string{"firebase"}}
	svc := newStubService(stub)

	settings := platform.Settings{}
	plat, err := svc.selectPlatform(&settings)
	if err != nil {
		t.Fatalf("selectPlatform failed: %v", err)
	}

	if plat.Name() != "firebase" {
		t.Errorf("expected firebase, got %s", plat.Name())
	}
	if settings.Platform != "firebase" {
		t.Errorf("expected settings updated, got %q", settings.Platform)
	}
}

func TestSelectPlatform_NonInteractiveNeedsFlag(t *testing.T) {
	svc := newStubService(prompt.New(true))

	settings := platform.Settings{}
	_, err := svc.selectPlatform(&settings)
	if err == nil {
		t.Fatal("expected error when nothing picks a platform")
	}
	if !strings.Contains(err.Error(), "--platform") {
		t.Errorf("expected a hint about --platform, got: %v", err)
	}
}

func TestSelectPlatform_RejectsUnknown(t *testing.T) {
	svc := newStubService(&stubPrompter{})

	settings := platform.Settings{Platform: "heroku"}
	_, err := svc.selectPlatform(&settings)
	if !errors.Is(err, platform.ErrUnknownPlatform) {
		t.Errorf("expected ErrUnknownPlatform, got: %v", err)
	}
}

func mustPlatform(t *testing.T, name string) platform.Platform {
	t.Helper()
	plat, err := platform.ForName(name)
	if err != nil {
		t.Fatal(err)
	}
	return plat
}

func TestConfirmSettings_FirstRunAsksEverything(t *testing.T) {
	stub := &stubPrompter{}
	svc := newStubService(stub)

	settings := platform.Settings{BuildCommand: "npm run build", PublishDir: "dist"}
	if err := svc.confirmSettings(&settings, mustPlatform(t, "netlify"), true, false); err != nil {
		t.Fatalf("confirmSettings failed: %v", err)
	}

	if len(stub.asked) != 4 {
		t.Fatalf("expected 4 questions on first run, got %d: %v", len(stub.asked), stub.asked)
	}
	if !strings.Contains(stub.asked[2], "site ID") {
		t.Errorf("expected the netlify site question, got %q", stub.asked[2])
	}
}

func TestConfirmSettings_RepeatRunOnlyAsksProd(t *testing.T) {
	stub := &stubPrompter{confirmAnswers: []bool{true}}
	svc := newStubService(stub)

	settings := platform.Settings{}
	if err := svc.confirmSettings(&settings, mustPlatform(t, "vercel"), false, false); err != nil {
		t.Fatalf("confirmSettings failed: %v", err)
	}

	if len(stub.asked) != 1 {
		t.Fatalf("expected only the production question, got %v", stub.asked)
	}
	if !settings.Prod {
		t.Error("expected prod answer to stick")
	}
}

func TestConfirmSettings_FirebaseAlwaysProd(t *testing.T) {
	stub := &stubPrompter{}
	svc := newStubService(stub)

	settings := platform.Settings{}
	if err := svc.confirmSettings(&settings, mustPlatform(t, "firebase"), false, false); err != nil {
		t.Fatalf("confirmSettings failed: %v", err)
	}

	if len(stub.asked) != 0 {
		t.Fatalf("expected no questions for a platform without drafts, got %v", stub.asked)
	}
	if !settings.Prod {
		t.Error("expected prod to be forced on")
	}
}

func TestConfirmSettings_PinnedProdAsksNothing(t *testing.T) {
	stub := &stubPrompter{}
	svc := newStubService(stub)

	settings := platform.Settings{Prod: true}
	if err := svc.confirmSettings(&settings, mustPlatform(t, "vercel"), false, true); err != nil {
		t.Fatalf("confirmSettings failed: %v", err)
	}

	if len(stub.asked) != 0 {
		t.Fatalf("expected no questions, got %v", stub.asked)
	}
}

func TestEnsureConfig_GeneratesWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	svc := newStubService(&stubPrompter{})

	settings := platform.Settings{PublishDir: "dist"}
	written, err := svc.ensureConfig(dir, mustPlatform(t, "netlify"), &settings, nil)
	if err != nil {
		t.Fatalf("ensureConfig failed: %v", err)
	}

	if len(written) != 1 || written[0] != "netlify.toml" {
		t.Fatalf("expected netlify.toml to be written, got %v", written)
	}
	if _, err := os.Stat(filepath.Join(dir, "netlify.toml")); err != nil {
		t.Errorf("expected config file on disk: %v", err)
	}
}

func TestEnsureConfig_KeepsForeignConfig(t *testing.T) {
	dir := t.TempDir()
	original := "# hand-written\n[build]\npublish = \"public\"\n"
	if err := os.WriteFile(filepath.Join(dir, "netlify.toml"), []byte(original), 0644); err != nil {
		t.Fatal(err)
	}

	svc := newStubService(&stubPrompter{})
	settings := platform.Settings{PublishDir: "dist"}

	written, err := svc.ensureConfig(dir, mustPlatform(t, "netlify"), &settings, nil)
	if err != nil {
		t.Fatalf("ensureConfig failed: %v", err)
	}
	if written != nil {
		t.Fatalf("expected nothing written over a foreign config, got %v", written)
	}

	content, err := os.ReadFile(filepath.Join(dir, "netlify.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != original {
		t.Error("hand-written config was modified")
	}
}

func TestEnsureConfig_OverwriteDeclined(t *testing.T) {
	dir := t.TempDir()
	original := "[build]\npublish = \"old\"\n"
	if err := os.WriteFile(filepath.Join(dir, "netlify.toml"), []byte(original), 0644); err != nil {
		t.Fatal(err)
	}

	stub := &stubPrompter{confirmAnswers: []bool{false}}
	svc := newStubService(stub)
	owned := &project.File{Generated: []string{"netlify.toml"}}

	written, err := svc.ensureConfig(dir, mustPlatform(t, "netlify"), &platform.Settings{PublishDir: "dist"}, owned)
	if err != nil {
		t.Fatalf("ensureConfig failed: %v", err)
	}
	if written != nil {
		t.Fatalf("expected declined overwrite to write nothing, got %v", written)
	}

	content, _ := os.ReadFile(filepath.Join(dir, "netlify.toml"))
	if string(content) != original {
		t.Error("config was overwritten despite declined prompt")
	}
}

func TestEnsureConfig_OverwriteAccepted(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "netlify.toml"), []byte("[build]\npublish = \"old\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	stub := &stubPrompter{confirmAnswers: []bool{true}}
	svc := newStubService(stub)
	owned := &project.File{Generated: []string{"netlify.toml"}}

	written, err := svc.ensureConfig(dir, mustPlatform(t, "netlify"), &platform.Settings{PublishDir: "dist"}, owned)
	if err != nil {
		t.Fatalf("ensureConfig failed: %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("expected a rewrite, got %v", written)
	}

	content, _ := os.ReadFile(filepath.Join(dir, "netlify.toml"))
	if !strings.Contains(string(content), "dist") {
		t.Error("expected refreshed config content")
	}
}

func TestApplyExistingConfig_PinnedFieldsWin(t *testing.T) {
	dir := t.TempDir()
	toml := "[build]\ncommand = \"hugo\"\npublish = \"public\"\n"
	if err := os.WriteFile(filepath.Join(dir, "netlify.toml"), []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}

	svc := newStubService(&stubPrompter{})
	file := &project.File{BuildCommand: "yarn build"}
	settings := platform.Settings{BuildCommand: "yarn build", PublishDir: "dist"}

	svc.applyExistingConfig(dir, mustPlatform(t, "netlify"), &settings, file, Options{})

	if settings.BuildCommand != "yarn build" {
		t.Errorf("saved build command should win over config file, got %q", settings.BuildCommand)
	}
	if settings.PublishDir != "public" {
		t.Errorf("unpinned publish dir should come from config file, got %q", settings.PublishDir)
	}
}

func TestVerifyPublishDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "dist"), 0755); err != nil {
		t.Fatal(err)
	}

	netlify := mustPlatform(t, "netlify")
	if err := verifyPublishDir(dir, netlify, &platform.Settings{PublishDir: "dist"}); err != nil {
		t.Errorf("expected existing publish dir to pass: %v", err)
	}

	err := verifyPublishDir(dir, netlify, &platform.Settings{PublishDir: "build"})
	if err == nil || !strings.Contains(err.Error(), "publish directory") {
		t.Errorf("expected missing publish dir error, got: %v", err)
	}

	// Remote-build platforms upload sources, no local output needed
	if err := verifyPublishDir(dir, mustPlatform(t, "vercel"), &platform.Settings{PublishDir: "build"}); err != nil {
		t.Errorf("expected remote-build platform to skip the check: %v", err)
	}
}

func TestBuildRecord_Outcomes(t *testing.T) {
	analysis := viteAnalysis()
	settings := &platform.Settings{
		Platform:       "netlify",
		Framework:      analysis.Framework,
		PackageManager: analysis.PackageManager,
		BuildCommand:   "npm run build",
		PublishDir:     "dist",
		Prod:           true,
	}

	success := buildRecord("/proj", analysis, settings, gitmeta.Meta{Branch: "main"}, &Result{URL: "https://demo.netlify.app"}, 0, nil)
	if success.Status != state.StatusSucceeded {
		t.Errorf("expected succeeded status, got %s", success.Status)
	}
	if success.URL != "https://demo.netlify.app" {
		t.Errorf("expected URL on success, got %q", success.URL)
	}

	failure := buildRecord("/proj", analysis, settings, gitmeta.Meta{}, nil, 0, errors.New("deploy blew up"))
	if failure.Status != state.StatusFailed {
		t.Errorf("expected failed status, got %s", failure.Status)
	}
	if !strings.Contains(failure.Error, "blew up") {
		t.Errorf("expected error message recorded, got %q", failure.Error)
	}
	if failure.URL != "" {
		t.Errorf("expected no URL on failure, got %q", failure.URL)
	}
}

func TestTracker_Last(t *testing.T) {
	var disabled *Tracker
	if disabled.Last(context.Background(), "/proj") != nil {
		t.Error("expected nil from a disabled tracker")
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&state.Deployment{}); err != nil {
		t.Fatal(err)
	}
	tracker := NewTracker(state.NewRepository(db))

	if tracker.Last(context.Background(), "/proj") != nil {
		t.Error("expected nil before any deploys")
	}

	tracker.Record(context.Background(), &state.Deployment{
		ProjectName: "demo",
		ProjectPath: "/proj",
		Platform:    "netlify",
		Status:      state.StatusSucceeded,
	})

	last := tracker.Last(context.Background(), "/proj")
	if last == nil {
		t.Fatal("expected the recorded deployment back")
	}
	if last.Platform != "netlify" {
		t.Errorf("unexpected record: %+v", last)
	}
}

func TestDeploy_MissingCLIRecordsFailure(t *testing.T) {
	if _, err := exec.LookPath("vercel"); err == nil {
		t.Skip("vercel CLI installed, test assumes it is absent")
	}

	dir := t.TempDir()
	pkg := `{"name":"demo","scripts":{"build":"vite build"},"devDependencies":{"vite":"^5.0.0"}}`
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(pkg), 0644); err != nil {
		t.Fatal(err)
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&state.Deployment{}); err != nil {
		t.Fatal(err)
	}
	repo := state.NewRepository(db)

	svc := NewService(ServiceConfig{
		Prompter: &stubPrompter{},
		Tracker:  NewTracker(repo),
		Out:      &bytes.Buffer{},
	})

	_, err = svc.Deploy(context.Background(), Options{Dir: dir, Platform: "vercel"})
	if err == nil {
		t.Fatal("expected deploy to fail without the vercel CLI")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected a missing-CLI error, got: %v", err)
	}

	rows, err := repo.List(context.Background(), state.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one history row, got %d", len(rows))
	}
	if rows[0].Status != state.StatusFailed {
		t.Errorf("expected recorded failure, got %s", rows[0].Status)
	}
	if rows[0].Platform != "vercel" || rows[0].ProjectName != "demo" {
		t.Errorf("unexpected record: %+v", rows[0])
	}
}
