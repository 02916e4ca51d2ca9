// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package dispatch

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinThread binds the calling goroutine's OS thread to cpu, wrapping
// past the last logical CPU. Errors are swallowed: under cgroup CPU
// limits sched_setaffinity can fail with EPERM, and the fallback is
// simply no pin.
func pinThread(cpu int) {
	if cpu < 0 {
		return
	}
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu % runtime.NumCPU())
	_ = unix.SchedSetaffinity(0, &set)
}
