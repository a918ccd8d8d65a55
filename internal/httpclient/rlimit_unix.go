//go:build unix

package httpclient

import "golang.org/x/sys/unix"

// openFileLimit returns the process's current soft RLIMIT_NOFILE, or
// 0 if it cannot be read.
func openFileLimit() int {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		return 0
	}
	return int(rlimit.Cur)
}
