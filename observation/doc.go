// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package observation provides the Observation lifecycle, its Handlers, and the
Scope stack that tracks which Observation is current for a logical thread of
control.

A logical thread of control is represented by a Local, which is bound into a
context.Context.  Opening a Scope pushes an Observation onto a Local, and
closing that Scope restores exactly the Scope that was current when it was
opened.
*/
package observation
