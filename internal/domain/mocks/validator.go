// Package mocks provides testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"snipcheck.dev/pkg/snipcheck/internal/domain"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

// MockValidator is a mock implementation of domain.Validator. Variadic
// options are passed to Called one argument each.
type MockValidator struct {
	mock.Mock
}

var _ domain.Validator = (*MockValidator)(nil)

// NewMockValidator creates a MockValidator whose expectations are asserted
// when the test ends.
func NewMockValidator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockValidator {
	v := &MockValidator{}
	v.Mock.Test(t)

	t.Cleanup(func() { v.AssertExpectations(t) })

	return v
}

// Validate provides a mock function.
func (v *MockValidator) Validate(ctx context.Context, code string, opts ...domain.ValidateOption) (m.ValidationResult, error) {
	args := []interface{}{ctx, code}
	for _, opt := range opts {
		args = append(args, opt)
	}

	ret := v.Called(args...)

	var result m.ValidationResult
	if fn, ok := ret.Get(0).(func(context.Context, string, ...domain.ValidateOption) m.ValidationResult); ok {
		result = fn(ctx, code, opts...)
	} else if ret.Get(0) != nil {
		result = ret.Get(0).(m.ValidationResult)
	}

	return result, ret.Error(1)
}

// Prepare provides a mock function.
func (v *MockValidator) Prepare(code string, opts ...domain.ValidateOption) (m.SourceUnit, bool) {
	args := []interface{}{code}
	for _, opt := range opts {
		args = append(args, opt)
	}

	ret := v.Called(args...)

	var unit m.SourceUnit
	if ret.Get(0) != nil {
		unit = ret.Get(0).(m.SourceUnit)
	}

	return unit, ret.Bool(1)
}

// InvalidateDeclarationCache provides a mock function.
func (v *MockValidator) InvalidateDeclarationCache() {
	v.Called()
}
