// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package observationtest

import (
	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/observe/observation"
)

// MockHandler is a testify mock for observation.Handler
type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) OnStart(c *observation.Context) {
	m.Called(c)
}

func (m *MockHandler) OnError(c *observation.Context) {
	m.Called(c)
}

func (m *MockHandler) OnEvent(e observation.Event, c *observation.Context) {
	m.Called(e, c)
}

func (m *MockHandler) OnScopeOpened(c *observation.Context) {
	m.Called(c)
}

func (m *MockHandler) OnScopeClosed(c *observation.Context) {
	m.Called(c)
}

func (m *MockHandler) OnScopeReset(c *observation.Context) {
	m.Called(c)
}

func (m *MockHandler) OnStop(c *observation.Context) {
	m.Called(c)
}

func (m *MockHandler) SupportsContext(c *observation.Context) bool {
	return m.Called(c).Bool(0)
}

// OnSupportsContext sets an expectation for SupportsContext with any Context
func (m *MockHandler) OnSupportsContext(supported bool) *mock.Call {
	return m.On("SupportsContext", mock.AnythingOfType("*observation.Context")).Return(supported)
}
