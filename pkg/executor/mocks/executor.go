package mocks

import (
	"context"

	"github.com/intelsdi-x/meshbw/pkg/executor"
	"github.com/stretchr/testify/mock"
)

// Executor mock
type Executor struct {
	mock.Mock
}

// Execute provides a mock function with given fields: ctx, command
func (_m *Executor) Execute(ctx context.Context, command string) (executor.Status, error) {
	ret := _m.Called(ctx, command)

	var r0 executor.Status
	if rf, ok := ret.Get(0).(func(context.Context, string) executor.Status); ok {
		r0 = rf(ctx, command)
	} else {
		r0 = ret.Get(0).(executor.Status)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, command)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Name provides a mock function with given fields:
func (_m *Executor) Name() string {
	ret := _m.Called()

	var r0 string
	if rf, ok := ret.Get(0).(func() string); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}
