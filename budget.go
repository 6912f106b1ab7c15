package vmarena

import (
	"github.com/hupe1980/vmarena/internal/resource"
)

// MemoryAcquirer is an interface for charging committed memory to a budget.
// Implementations must be safe for concurrent use when shared between arenas.
type MemoryAcquirer interface {
	// AcquireMemory charges bytes to the budget without blocking.
	AcquireMemory(bytes int64) error
	// ReleaseMemory credits bytes back to the budget.
	ReleaseMemory(bytes int64)
}

// MemoryBudget is a committed-memory budget that can be shared between arenas.
type MemoryBudget struct {
	*resource.Controller
}

// NewMemoryBudget creates a budget that allows at most limitBytes of committed
// memory across all arenas using it. A limit of 0 only tracks usage.
func NewMemoryBudget(limitBytes int64) *MemoryBudget {
	return &MemoryBudget{
		Controller: resource.NewController(resource.Config{MemoryLimitBytes: limitBytes}),
	}
}
