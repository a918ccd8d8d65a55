package httpclient

const portableDefaultPermitPoolSize = 64

// DefaultPermitPoolSize bounds the concurrency semaphore per
// SPEC_FULL.md §4.4: the smaller of the configured global concurrency
// and half the process's open-file rlimit, falling back to a portable
// constant where the rlimit cannot be read.
func DefaultPermitPoolSize(globalConcurrency int) int {
	limit := openFileLimit() / 2
	if limit <= 0 {
		limit = portableDefaultPermitPoolSize
	}
	if globalConcurrency > 0 && globalConcurrency < limit {
		return globalConcurrency
	}
	return limit
}
