package analyzer

// Framework represents a detected web framework
type Framework string

const (
	FrameworkNext       Framework = "next"
	FrameworkNuxt       Framework = "nuxt"
	FrameworkSvelteKit  Framework = "sveltekit"
	FrameworkRemix      Framework = "remix"
	FrameworkAngular    Framework = "angular"
	FrameworkGatsby     Framework = "gatsby"
	FrameworkAstro      Framework = "astro"
	FrameworkDocusaurus Framework = "docusaurus"
	FrameworkEleventy   Framework = "eleventy"
	FrameworkEmber      Framework = "ember"
	FrameworkCRA        Framework = "create-react-app"
	FrameworkVueCLI     Framework = "vue-cli"
	FrameworkSvelte     Framework = "svelte"
	FrameworkVite       Framework = "vite"
	FrameworkStatic     Framework = "static"
)

// PackageManager represents a Node.js package manager
type PackageManager string

const (
	PackageManagerNPM  PackageManager = "npm"
	PackageManagerYarn PackageManager = "yarn"
	PackageManagerPNPM PackageManager = "pnpm"
	PackageManagerBun  PackageManager = "bun"
)

// Analysis represents the result of inspecting a project directory
type Analysis struct {
	ProjectName     string            `json:"project_name"`
	Framework       Framework         `json:"framework"`
	FrameworkName   string            `json:"framework_name"`
	PackageManager  PackageManager    `json:"package_manager"`
	BuildCommand    string            `json:"build_command,omitempty"`
	PublishDir      string            `json:"publish_dir"`
	DevPort         int               `json:"dev_port,omitempty"`
	SPA             bool              `json:"spa"`
	HasBuildScript  bool              `json:"has_build_script"`
	NodeVersion     string            `json:"node_version,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"dev_dependencies,omitempty"`
}

// FrameworkInfo holds deployment defaults for a framework
type FrameworkInfo struct {
	Name       string
	PublishDir string
	DevPort    int
	SPA        bool
}
