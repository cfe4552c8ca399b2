package pgerrors

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// IsConnectionError сообщает, что ошибка связана с недоступностью БД, а не с запросом
// Такие ошибки можно повторить позже
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		// 08 - connection exception, 57P01..57P03 - admin shutdown / cannot connect now
		return strings.HasPrefix(code, "08") || strings.HasPrefix(code, "57P0")
	}
	return false
}

// Wrap помечает ошибки соединения как domain.ErrStoreUnavailable,
// остальные оборачивает в переданный sentinel
func Wrap(sentinel error, op string, err error) error {
	if IsConnectionError(err) {
		return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", sentinel, op, err)
}
