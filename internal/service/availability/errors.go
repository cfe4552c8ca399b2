package availability

import "errors"

var (
	// ErrInvalidRange возвращается, когда начало диапазона позже конца
	ErrInvalidRange = errors.New("availability: range start is after range end")

	// ErrInvalidHours возвращается, когда время открытия или закрытия не разбирается
	ErrInvalidHours = errors.New("availability: invalid hours of operation")
)
