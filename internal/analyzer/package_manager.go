package analyzer

// PackageManagerDetector detects the package manager from lockfiles
type PackageManagerDetector struct{}

// NewPackageManagerDetector creates a new package manager detector
func NewPackageManagerDetector() *PackageManagerDetector {
	return &PackageManagerDetector{}
}

// lockFiles maps lockfile names to package managers, in precedence order.
// Bun and pnpm lockfiles outrank yarn and npm ones because projects that
// migrated between managers often leave the old lockfile behind.
var lockFiles = []struct {
	name    string
	manager PackageManager
}{
	{"bun.lockb", PackageManagerBun},
	{"bun.lock", PackageManagerBun},
	{"pnpm-lock.yaml", PackageManagerPNPM},
	{".yarnrc.yml", PackageManagerYarn},
	{"yarn.lock", PackageManagerYarn},
	{"package-lock.json", PackageManagerNPM},
}

// Detect determines the package manager for dir, defaulting to npm
func (pd *PackageManagerDetector) Detect(dir string) PackageManager {
	for _, lf := range lockFiles {
		if fileExists(dir, lf.name) {
			return lf.manager
		}
	}
	return PackageManagerNPM
}

// BuildCommand returns the full command that runs the named script
// through the given package manager
func BuildCommand(pm PackageManager, script string) string {
	switch pm {
	case PackageManagerYarn:
		return "yarn " + script
	case PackageManagerPNPM:
		return "pnpm run " + script
	case PackageManagerBun:
		return "bun run " + script
	default:
		return "npm run " + script
	}
}

// InstallCommand returns the dependency install command for the manager
func InstallCommand(pm PackageManager) string {
	switch pm {
	case PackageManagerYarn:
		return "yarn install"
	case PackageManagerPNPM:
		return "pnpm install"
	case PackageManagerBun:
		return "bun install"
	default:
		return "npm install"
	}
}
