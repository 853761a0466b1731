package analyzer

// FrameworkDetector detects web frameworks from project manifests
type FrameworkDetector struct{}

// NewFrameworkDetector creates a new framework detector
func NewFrameworkDetector() *FrameworkDetector {
	return &FrameworkDetector{}
}

// frameworkRule maps a package.json dependency to a framework, with
// config files as a fallback indicator when the dependency is absent.
type frameworkRule struct {
	framework   Framework
	dep         string
	configFiles []string
}

// frameworkRules are evaluated in order: meta-frameworks come before the
// foundations they are built on (Next before React, SvelteKit before
// Svelte before Vite), so the first match is the most specific one.
var frameworkRules = []frameworkRule{
	{framework: FrameworkNext, dep: "next", configFiles: []string{"next.config.js", "next.config.mjs", "next.config.ts"}},
	{framework: FrameworkNuxt, dep: "nuxt", configFiles: []string{"nuxt.config.js", "nuxt.config.ts"}},
	{framework: FrameworkSvelteKit, dep: "@sveltejs/kit"},
	{framework: FrameworkRemix, dep: "@remix-run/dev"},
	{framework: FrameworkAngular, dep: "@angular/core", configFiles: []string{"angular.json"}},
	{framework: FrameworkGatsby, dep: "gatsby", configFiles: []string{"gatsby-config.js", "gatsby-config.ts"}},
	{framework: FrameworkAstro, dep: "astro", configFiles: []string{"astro.config.mjs", "astro.config.ts"}},
	{framework: FrameworkDocusaurus, dep: "@docusaurus/core", configFiles: []string{"docusaurus.config.js"}},
	{framework: FrameworkEleventy, dep: "@11ty/eleventy", configFiles: []string{".eleventy.js", "eleventy.config.js"}},
	{framework: FrameworkEmber, dep: "ember-cli", configFiles: []string{"ember-cli-build.js"}},
	{framework: FrameworkCRA, dep: "react-scripts"},
	{framework: FrameworkVueCLI, dep: "@vue/cli-service"},
	{framework: FrameworkSvelte, dep: "svelte"},
	{framework: FrameworkVite, dep: "vite"},
}

// Detect determines the framework from the parsed manifest. A missing
// manifest falls back to config file indicators, then to static.
func (fd *FrameworkDetector) Detect(dir string, pkg *PackageJSON) Framework {
	if pkg != nil {
		deps := pkg.AllDependencies()
		for _, rule := range frameworkRules {
			if _, ok := deps[rule.dep]; ok {
				return rule.framework
			}
		}
	}

	// No dependency matched; look for framework config files on disk
	for _, rule := range frameworkRules {
		for _, name := range rule.configFiles {
			if fileExists(dir, name) {
				return rule.framework
			}
		}
	}

	return FrameworkStatic
}

// frameworkInfo holds the per-framework deployment defaults. The publish
// directory is what each framework's production build writes by default.
var frameworkInfo = map[Framework]FrameworkInfo{
	FrameworkNext:       {Name: "Next.js", PublishDir: ".next", DevPort: 3000},
	FrameworkNuxt:       {Name: "Nuxt", PublishDir: ".output/public", DevPort: 3000},
	FrameworkSvelteKit:  {Name: "SvelteKit", PublishDir: "build", DevPort: 5173},
	FrameworkRemix:      {Name: "Remix", PublishDir: "build/client", DevPort: 3000},
	FrameworkAngular:    {Name: "Angular", PublishDir: "dist", DevPort: 4200, SPA: true},
	FrameworkGatsby:     {Name: "Gatsby", PublishDir: "public", DevPort: 8000},
	FrameworkAstro:      {Name: "Astro", PublishDir: "dist", DevPort: 4321},
	FrameworkDocusaurus: {Name: "Docusaurus", PublishDir: "build", DevPort: 3000},
	FrameworkEleventy:   {Name: "Eleventy", PublishDir: "_site", DevPort: 8080},
	FrameworkEmber:      {Name: "Ember", PublishDir: "dist", DevPort: 4200, SPA: true},
	FrameworkCRA:        {Name: "Create React App", PublishDir: "build", DevPort: 3000, SPA: true},
	FrameworkVueCLI:     {Name: "Vue CLI", PublishDir: "dist", DevPort: 8080, SPA: true},
	FrameworkSvelte:     {Name: "Svelte", PublishDir: "dist", DevPort: 5173, SPA: true},
	FrameworkVite:       {Name: "Vite", PublishDir: "dist", DevPort: 5173, SPA: true},
	FrameworkStatic:     {Name: "Static site", PublishDir: "."},
}

// GetFrameworkInfo returns the deployment defaults for a framework
func GetFrameworkInfo(framework Framework) FrameworkInfo {
	if info, ok := frameworkInfo[framework]; ok {
		return info
	}
	return FrameworkInfo{Name: string(framework), PublishDir: "."}
}
