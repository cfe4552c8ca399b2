package shophours

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrShopNotFound возвращается, когда мастерская не найдена
	ErrShopNotFound = fmt.Errorf("shophours: shop %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("shophours: internal error")
)
