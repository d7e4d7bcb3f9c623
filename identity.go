package simcb

import (
	"fmt"
	"os"
	"sync/atomic"
)

var buildSeq atomic.Uint64

// NewIdentity returns a process-unique filename prefix for one ephemeral
// build. Pid plus a monotonic counter keeps identities collision free by
// construction, even for concurrent builds, and they are never reused.
func NewIdentity() string {
	return fmt.Sprintf("_fn_%d_%d", os.Getpid(), buildSeq.Add(1))
}
