package quiesce

import (
	_ "unsafe" // for go:linkname
)

// The pinned-window discipline needs two things the runtime already provides
// for sync.Pool: pin the calling goroutine to its current P (disabling
// preemption and migration) and report the P's id as the execution-unit id.
// These are the same push-linknamed entry points the standard library uses.

//go:linkname runtimeProcPin sync.runtime_procPin
func runtimeProcPin() int

//go:linkname runtimeProcUnpin sync.runtime_procUnpin
func runtimeProcUnpin()
