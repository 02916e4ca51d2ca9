// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package locked provides mutex-based concurrent collections and locks.
//
// These primitives complement the non-blocking queues in the parent
// package: [Queue] blocks its consumer until an element arrives, [Stack]
// guards a LIFO with a plain mutex, and [SpinLock] is a test-and-set lock
// for very short critical sections. They favor simplicity and blocking
// semantics over the parent package's throughput; none of them are used
// by the lock-free structures themselves.
package locked
