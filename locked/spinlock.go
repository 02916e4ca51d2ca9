// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package locked

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// SpinLock is a test-and-set spinlock.
//
// Lock spins with CPU pause instructions until the lock word is acquired
// (acquire ordering); Unlock releases it (release ordering). The lock is
// not reentrant: a goroutine that locks twice deadlocks against itself.
// Suited to very short critical sections where parking a goroutine on a
// sync.Mutex costs more than a few spins; under longer hold times prefer
// sync.Mutex, which cooperates with the scheduler.
//
// SpinLock satisfies [sync.Locker]. The zero value is an unlocked lock.
type SpinLock struct {
	state atomix.Uint64
}

// Lock acquires the lock, spinning until it becomes available.
func (l *SpinLock) Lock() {
	sw := spin.Wait{}
	for !l.state.CompareAndSwapAcqRel(0, 1) {
		sw.Once()
	}
}

// TryLock acquires the lock without spinning.
// Returns false when the lock is already held.
func (l *SpinLock) TryLock() bool {
	return l.state.CompareAndSwapAcqRel(0, 1)
}

// Unlock releases the lock.
// Unlock of an unheld lock leaves the lock unlocked; callers are expected
// to pair every Unlock with an acquisition.
func (l *SpinLock) Unlock() {
	l.state.StoreRelease(0)
}
