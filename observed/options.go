// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package observed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/xmidt-org/observe/observation"
)

// Ownership decides who owns the observation of a nested intercepted call
type Ownership int

const (
	// CreateObservation gives every intercepted call its own observation, which the
	// Adapter creates, starts, and stops.
	CreateObservation Ownership = iota

	// JoinCurrent reuses the observation already current for the call, if any.  The
	// Adapter keeps it current for the duration of the call but never stops it.
	JoinCurrent
)

var ErrInvalidOwnership = errors.New("observed: invalid ownership")

func (o Ownership) String() string {
	switch o {
	case CreateObservation:
		return "create"
	case JoinCurrent:
		return "join"
	default:
		return "unknown"
	}
}

// ParseOwnership accepts "create" or "join", ignoring case.  The empty string is "create".
func ParseOwnership(v string) (Ownership, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "create":
		return CreateObservation, nil
	case "join":
		return JoinCurrent, nil
	default:
		return CreateObservation, fmt.Errorf("%w: %q", ErrInvalidOwnership, v)
	}
}

// Options is the configurable part of an Adapter
type Options struct {
	// Ownership is either "create" or "join".  The default is "create".
	Ownership string `json:"ownership"`

	// LowCardinalityKeyValues are added to every observation.  Values of any scalar
	// type are converted to strings.
	LowCardinalityKeyValues map[string]interface{} `json:"lowCardinalityKeyValues"`
}

func (o *Options) keyValues() (observation.KeyValues, error) {
	if o == nil {
		return nil, nil
	}

	more := make([]observation.KeyValue, 0, len(o.LowCardinalityKeyValues))
	for k, v := range o.LowCardinalityKeyValues {
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("observed: key value %s: %w", k, err)
		}

		more = append(more, observation.KeyValue{Key: k, Value: s})
	}

	return observation.KeyValues(nil).With(more...), nil
}

// AdapterOptions converts these Options into Adapter options
func (o *Options) AdapterOptions() ([]Option, error) {
	var ownership string
	if o != nil {
		ownership = o.Ownership
	}

	own, err := ParseOwnership(ownership)
	if err != nil {
		return nil, err
	}

	kvs, err := o.keyValues()
	if err != nil {
		return nil, err
	}

	return []Option{
		WithOwnership(own),
		WithLowCardinalityKeyValues(kvs...),
	}, nil
}
