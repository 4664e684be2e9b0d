package mocks

import (
	"context"

	"github.com/Buchara777/AI-Adventure/shared/interfaces"
	"github.com/Buchara777/AI-Adventure/shared/models"

	"github.com/stretchr/testify/mock"
)

// MockRelay is a mock type for the interfaces.Relay type
type MockRelay struct {
	mock.Mock
}

// Continue provides a mock function with given fields: ctx, req
func (_m *MockRelay) Continue(ctx context.Context, req models.ContinuationRequest) (*models.ContinuationResult, error) {
	ret := _m.Called(ctx, req)

	var r0 *models.ContinuationResult
	if rf, ok := ret.Get(0).(func(context.Context, models.ContinuationRequest) *models.ContinuationResult); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.ContinuationResult)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, models.ContinuationRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Seed provides a mock function with given fields: ctx, req
func (_m *MockRelay) Seed(ctx context.Context, req models.SeedRequest) (*models.SeedResult, error) {
	ret := _m.Called(ctx, req)

	var r0 *models.SeedResult
	if rf, ok := ret.Get(0).(func(context.Context, models.SeedRequest) *models.SeedResult); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.SeedResult)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, models.SeedRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockRelay creates a new instance of MockRelay. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockRelay(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRelay {
	m := &MockRelay{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ interfaces.Relay = (*MockRelay)(nil)
