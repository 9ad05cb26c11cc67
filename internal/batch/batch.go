package batch

import (
	"fmt"
	"math"
)

// DefaultInitialDivisor is the default divisor used by InitialPartition.
const DefaultInitialDivisor = 4

// InitialPartition splits files into consecutive slices of length
// max(1, ceil(len(files)/divisor)), the final slice possibly shorter.
// A divisor <= 0 falls back to DefaultInitialDivisor.
func InitialPartition(files []string, divisor int, ids *IDGenerator) ([]*Batch, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("batch: cannot partition an empty file list")
	}
	if divisor <= 0 {
		divisor = DefaultInitialDivisor
	}

	size := int(math.Ceil(float64(len(files)) / float64(divisor)))
	if size < 1 {
		size = 1
	}

	var batches []*Batch
	for start := 0; start < len(files); start += size {
		end := start + size
		if end > len(files) {
			end = len(files)
		}
		slice := make([]string, end-start)
		copy(slice, files[start:end])
		batches = append(batches, &Batch{
			ID:    ids.Next(),
			Files: slice,
		})
	}
	return batches, nil
}

// Bisect splits b into two child batches whose file lists concatenate
// back to b.Files in order. It is only defined for len(b.Files) >= 2;
// when len(b.Files) == 1 bisection is impossible and the caller must
// treat the batch as a terminal failure instead.
func Bisect(b *Batch, ids *IDGenerator) (left, right *Batch, err error) {
	n := len(b.Files)
	if n < 2 {
		return nil, nil, fmt.Errorf("batch: cannot bisect a batch of %d file(s)", n)
	}

	mid := int(math.Ceil(float64(n) / 2))

	leftFiles := make([]string, mid)
	copy(leftFiles, b.Files[:mid])
	rightFiles := make([]string, n-mid)
	copy(rightFiles, b.Files[mid:])

	left = &Batch{ID: ids.Next(), Files: leftFiles, Retries: b.Retries + 1}
	right = &Batch{ID: ids.Next(), Files: rightFiles, Retries: b.Retries + 1}
	return left, right, nil
}
