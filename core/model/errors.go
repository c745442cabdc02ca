package model

import "errors"

var (
	// ErrInvalidVolume is returned when a volume is not strictly positive.
	ErrInvalidVolume = errors.New("volume must be positive")
	// ErrInvalidCapacity is returned when a truck capacity is not strictly positive.
	ErrInvalidCapacity = errors.New("capacity must be positive")
	// ErrNotFound is returned when a referenced record is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidWindow is returned when a reporting window exceeds its limit.
	ErrInvalidWindow = errors.New("window out of range")
	// ErrUnknownSiteType is returned for site types other than export or import.
	ErrUnknownSiteType = errors.New("unknown site type")
)
