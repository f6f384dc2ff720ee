package domain

import "fmt"

// Phase identifies the stage of delivery a plan node belongs to.
// This is a value object that enforces the fixed set of phases.
type Phase string

// Valid phases, in execution order
const (
	PhaseProvisioning Phase = "provisioning"
	PhaseDatabase     Phase = "database"
	PhaseBackend      Phase = "backend"
	PhaseFrontend     Phase = "frontend"
	PhaseTest         Phase = "test"
	PhasePackage      Phase = "package"
)

// Phases returns every phase in execution order
func Phases() []Phase {
	return []Phase{
		PhaseProvisioning,
		PhaseDatabase,
		PhaseBackend,
		PhaseFrontend,
		PhaseTest,
		PhasePackage,
	}
}

// NewPhase creates a new Phase value object with validation
func NewPhase(value string) (Phase, error) {
	p := Phase(value)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate checks if the phase is one of the known phases
func (p Phase) Validate() error {
	if p.Order() < 0 {
		return fmt.Errorf("invalid phase %q: must be one of provisioning, database, backend, frontend, test, package", string(p))
	}
	return nil
}

// String returns the string representation
func (p Phase) String() string {
	return string(p)
}

// Order returns the position of the phase in execution order, or -1 when unknown
func (p Phase) Order() int {
	for i, known := range Phases() {
		if p == known {
			return i
		}
	}
	return -1
}

// Precedes reports whether p runs strictly before other
func (p Phase) Precedes(other Phase) bool {
	return p.Order() >= 0 && other.Order() >= 0 && p.Order() < other.Order()
}
