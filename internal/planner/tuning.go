package planner

import (
	"fmt"

	"github.com/felixgeelhaar/taskgraph/internal/budget"
	"github.com/felixgeelhaar/taskgraph/internal/errors"
)

// Accepted range for WindowHeadroomPct
const (
	MinHeadroomPct = 0.05
	MaxHeadroomPct = 0.10
)

// Tuning holds every knob the planning pipeline reads. It has no defaults;
// callers build it from configuration.
type Tuning struct {
	DefaultModelWindow int     `json:"defaultModelWindow" yaml:"default_model_window"`
	WindowHeadroomPct  float64 `json:"windowHeadroomPct" yaml:"window_headroom_pct"`
	TokenBudgetFloor   int     `json:"tokenBudgetFloor" yaml:"token_budget_floor"`
	DefaultModelClass  string  `json:"defaultModelClass" yaml:"default_model_class"`
	OptionalModelClass string  `json:"optionalModelClass,omitempty" yaml:"optional_model_class,omitempty"`
}

// Validate checks the tuning values. A floor above capacity is accepted and
// surfaces as budget violations; see FloorExceedsCapacity.
func (t Tuning) Validate() error {
	switch {
	case t.DefaultModelWindow <= 0:
		return errors.NewConfigInvalidError(fmt.Sprintf("default_model_window must be positive, got %d", t.DefaultModelWindow))
	case t.WindowHeadroomPct < MinHeadroomPct || t.WindowHeadroomPct > MaxHeadroomPct:
		return errors.NewConfigInvalidError(fmt.Sprintf("window_headroom_pct must be between %.2f and %.2f, got %v", MinHeadroomPct, MaxHeadroomPct, t.WindowHeadroomPct))
	case t.TokenBudgetFloor < 0:
		return errors.NewConfigInvalidError(fmt.Sprintf("token_budget_floor must not be negative, got %d", t.TokenBudgetFloor))
	case t.DefaultModelClass == "":
		return errors.NewConfigInvalidError("default_model_class is required")
	}
	return nil
}

// Capacity is the per-node token limit derived from the window and headroom
func (t Tuning) Capacity() int {
	return budget.Capacity(t.DefaultModelWindow, t.WindowHeadroomPct)
}

// FloorExceedsCapacity reports the degenerate configuration in which no
// node can ever fit
func (t Tuning) FloorExceedsCapacity() bool {
	return t.TokenBudgetFloor > t.Capacity()
}
