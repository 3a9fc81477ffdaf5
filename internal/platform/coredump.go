// Package platform holds small OS-level process hardening helpers.
package platform

import "golang.org/x/sys/unix"

// DisableCoreDumps sets the core file size limit to zero so secrets held in
// memory (signing keys, credentials in flight) cannot end up in a dump.
func DisableCoreDumps() error {
	return unix.Setrlimit(unix.RLIMIT_CORE, &unix.Rlimit{Cur: 0, Max: 0})
}
