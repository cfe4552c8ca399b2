package shop

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrShopNotFound возвращается, когда мастерская не найдена
	ErrShopNotFound = fmt.Errorf("shop.repository: shop %w", domain.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("shop.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("shop.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("shop.repository: failed to scan row")

	// ErrEncodeHours возвращается при ошибке (де)сериализации часов работы
	ErrEncodeHours = errors.New("shop.repository: failed to encode hours of operation")
)
