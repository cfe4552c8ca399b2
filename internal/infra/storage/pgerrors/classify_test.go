package pgerrors

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var errQuery = errors.New("repo: query failed")

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "bad conn", err: fmt.Errorf("exec: %w", driver.ErrBadConn), want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "dial", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, want: true},
		{name: "connection exception", err: &pq.Error{Code: "08006"}, want: true},
		{name: "cannot connect now", err: &pq.Error{Code: "57P03"}, want: true},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: false},
		{name: "plain", err: errors.New("syntax error"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConnectionError(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(errQuery, "GetByID", driver.ErrBadConn)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, driver.ErrBadConn)
	assert.NotErrorIs(t, err, errQuery)

	err = Wrap(errQuery, "GetByID", &pq.Error{Code: "23505"})
	assert.ErrorIs(t, err, errQuery)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "GetByID")
}
