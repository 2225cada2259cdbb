// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package coroutine runs cooperative computations over a pool of worker goroutines.

A computation is written in continuation-passing style: each segment of code runs
on some worker until it reaches a suspension point, where it hands a Continuation
to whatever will eventually produce the result it is waiting for.  The Continuation
is later resumed on a worker, possibly a different one.

Each worker has its own observation.Local.  Interceptors wrap every Continuation
at every suspension point, which is where observation state is carried from the
suspending worker to the resuming one.
*/
package coroutine
