// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package middleware exposes observation as go-kit endpoint middleware.  A typical chain is

	endpoint.Chain(
		middleware.Bind,
		middleware.Observed(adapter, "Service", "Do", nil),
		middleware.Logging(logger),
		middleware.Timeout(time.Second),
	)(next)
*/
package middleware
