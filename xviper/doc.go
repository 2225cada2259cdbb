// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xviper loads the configuration of an observing application with viper.

Configuration comes from a file, the environment, and the command line, in the usual viper
order of precedence.  Config gathers every configurable part of this module under one key each:

	log:
	  level: debug
	dispatcher:
	  workers: 8
	  shutdownTimeout: 10s
	observed:
	  ownership: join
	  lowCardinalityKeyValues:
	    region: east
	metrics:
	  namespace: xmidt
	  subsystem: observe
*/
package xviper
