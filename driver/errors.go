package driver

import (
	"errors"
	"fmt"
)

// ErrInputNotFound reports a missing input directory or one containing
// no partitions.
var ErrInputNotFound = errors.New("input not found")

// PartitionError reports a failure reading one partition. A single
// PartitionError aborts the whole run: no partial result is ever
// exposed outside a failed run.
type PartitionError struct {
	Partition string
	Err       error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("partition %s: %v", e.Partition, e.Err)
}

func (e *PartitionError) Unwrap() error {
	return e.Err
}
