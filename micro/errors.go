package micro

import "fmt"

// OutOfMemory records that a refinement pass exceeded its field memory
// budget and was promoted to tiled solving; non-fatal (§7).
type OutOfMemory struct {
	EstimatedBytes, BudgetBytes int64
}

func (e *OutOfMemory) Error() string {
	return fmt.Sprintf("micro: estimated field memory %d bytes exceeds budget %d bytes, switching to tiled solver", e.EstimatedBytes, e.BudgetBytes)
}
