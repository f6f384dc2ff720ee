package ux

import (
	"os"
	"path/filepath"
)

// PathDefaults resolves default locations for plan files and inputs
type PathDefaults struct {
	Dir string
}

// NewPathDefaults returns defaults rooted at .taskgraph
func NewPathDefaults() *PathDefaults {
	return &PathDefaults{
		Dir: ".taskgraph",
	}
}

// PlanFile returns the default path to plan.json
func (pd *PathDefaults) PlanFile() string {
	return "plan.json"
}

// ConfigFile returns the project config path
func (pd *PathDefaults) ConfigFile() string {
	return filepath.Join(pd.Dir, "config.yaml")
}

// ArtifactDir returns the local artifact store directory
func (pd *PathDefaults) ArtifactDir() string {
	return filepath.Join(pd.Dir, "artifacts")
}

// PRDFile returns the first existing PRD candidate, or "" when none exists
func (pd *PathDefaults) PRDFile() string {
	return firstExisting("PRD.md", "prd.md", filepath.Join("docs", "PRD.md"))
}

// ContractFile returns the first existing contract candidate, or ""
func (pd *PathDefaults) ContractFile() string {
	return firstExisting("contract.yaml", "contract.yml", "api.yaml", "openapi.yaml",
		filepath.Join(pd.Dir, "contract.yaml"))
}

func firstExisting(paths ...string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// SuggestNextSteps provides contextual next steps based on what exists
func SuggestNextSteps() string {
	defaults := NewPathDefaults()

	if _, err := os.Stat(defaults.PlanFile()); err == nil {
		return "Check the plan with 'taskgraph plan validate' and 'taskgraph plan report'"
	}
	if defaults.PRDFile() == "" {
		return "Write a PRD.md describing the features to plan"
	}
	if defaults.ContractFile() == "" {
		return "Add an API contract (contract.yaml) listing the operations to cover"
	}
	return "Generate a plan with 'taskgraph plan create --prd " + defaults.PRDFile() +
		" --contract " + defaults.ContractFile() + "'"
}
