// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xmetrics provides configurable Prometheus metrics behind go-kit's provider.Provider.

Metrics are declared up front as Metric descriptors, typically through a Module function
exported by the package that uses them, and are preregistered when a Registry is created.
Only preregistered metrics may carry labels.
*/
package xmetrics
