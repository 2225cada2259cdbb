// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package tracing turns observations into spans.  Handler keeps finished Spans in memory,
which is enough for tests and for attaching a trace to a message.  OTelHandler exports
each observation as an OpenTelemetry span, parented by the span of the observation's
parent.
*/
package tracing
