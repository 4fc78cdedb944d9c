// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scopemeter.dev/pkg/scopemeter/internal/domain"
)

// MockWorkflow is a mock implementation of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

var _ domain.Workflow = (*MockWorkflow)(nil)

// NewMockWorkflow creates a MockWorkflow whose expectations are asserted when the test ends.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mockWorkflow := &MockWorkflow{}
	mockWorkflow.Test(t)

	t.Cleanup(func() { mockWorkflow.AssertExpectations(t) })

	return mockWorkflow
}

// Analyze provides a mock function.
func (_m *MockWorkflow) Analyze(ctx context.Context, args domain.AnalyzeArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// List provides a mock function.
func (_m *MockWorkflow) List(ctx context.Context, args domain.ListArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// View provides a mock function.
func (_m *MockWorkflow) View(ctx context.Context, args domain.ViewArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// Compare provides a mock function.
func (_m *MockWorkflow) Compare(ctx context.Context, args domain.CompareArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}
