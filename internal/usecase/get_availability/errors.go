package get_availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrShopNotFound возвращается, когда мастерская не найдена
	ErrShopNotFound = fmt.Errorf("get_availability: shop %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
