package octree

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Config holds the tuning constants for a loose octree. The zero value is not
// usable; New rejects any config that fails Validate.
type Config struct {
	// LoosePadding is the denominator controlling how far a child's effective
	// bounds extend past its geometric octant. Each child's extent is
	// extent * 0.5 * (1 + 1/LoosePadding), so larger values give tighter
	// children and more straddlers near split planes.
	LoosePadding float64

	// MinElementsPerNode is the subtree total below which an internal node
	// collapses back into a leaf.
	MinElementsPerNode int

	// MaxElementsPerNode is the element count that triggers a leaf split. It
	// is also the capacity of each pooled element group.
	MaxElementsPerNode int

	// MaxDepth bounds subdivision depth and sizes traversal stacks.
	MaxDepth int
}

// Validate returns every violated constraint in the config, combined.
func (cfg Config) Validate() error {
	var err error
	if cfg.LoosePadding <= 0 {
		err = multierr.Append(err, errors.Errorf("invalid loose padding (%.2f), must be positive", cfg.LoosePadding))
	}
	if cfg.MaxElementsPerNode <= 0 {
		err = multierr.Append(err, errors.Errorf("invalid max elements per node (%d), must be positive", cfg.MaxElementsPerNode))
	}
	if cfg.MinElementsPerNode < 0 || cfg.MinElementsPerNode > cfg.MaxElementsPerNode {
		err = multierr.Append(err, errors.Errorf("invalid min elements per node (%d), must be in [0, max elements per node]",
			cfg.MinElementsPerNode))
	}
	if cfg.MaxDepth <= 0 {
		err = multierr.Append(err, errors.Errorf("invalid max depth (%d), must be positive", cfg.MaxDepth))
	}
	return err
}

// childShrinkFactor is the ratio of a child's extent to its parent's.
func (cfg Config) childShrinkFactor() float64 {
	return 0.5 * (1 + 1/cfg.LoosePadding)
}
