package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"
)

type MockDBTX struct {
	mock.Mock
}

func (m *MockDBTX) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	callArgs := make([]interface{}, 0, 2+len(args))
	callArgs = append(callArgs, ctx, query)
	callArgs = append(callArgs, args...)

	ret := m.Called(callArgs...)

	var r0 sql.Result
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(sql.Result)
	}
	return r0, ret.Error(1)
}

// QueryRowContext cannot fake a *sql.Row; tests that need one run against
// a real database instead.
func (m *MockDBTX) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	callArgs := make([]interface{}, 0, 2+len(args))
	callArgs = append(callArgs, ctx, query)
	callArgs = append(callArgs, args...)

	ret := m.Called(callArgs...)

	var r0 *sql.Row
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*sql.Row)
	}
	return r0
}
