// Copyright (c) 2026 Statekit (https://github.com/statekit)
//
// errors.go — sentinel error variables returned by the public statepack API,
// covering converter resolution, value encoding, identifier decoding, and
// schema registration.

// Package statepack packs typed component state into bounded string
// identifiers and restores it, using a registry of per-type converters.
package statepack

import "errors"

// Resolution errors
var (
	ErrConverterNotFound = errors.New("statepack: no converter registered for type")
)

// Serialize errors
var (
	ErrOversize      = errors.New("statepack: identifier exceeds length limit")
	ErrMissingField  = errors.New("statepack: value missing for schema field")
	ErrStringTooLong = errors.New("statepack: string exceeds 255 bytes")
	ErrBadValue      = errors.New("statepack: value not representable by converter")
	ErrEnumValue     = errors.New("statepack: value is not a member of the enum")
)

// Deserialize errors
var (
	ErrUnknownCookie = errors.New("statepack: no schema registered for cookie")
	ErrTruncated     = errors.New("statepack: identifier shorter than field expects")
)

// Schema errors
var (
	ErrSchemaDuplicate  = errors.New("statepack: schema already registered")
	ErrSchemaNotFound   = errors.New("statepack: schema not registered")
	ErrInvalidModel     = errors.New("statepack: model must be a non-nil pointer to a struct")
	ErrUnsupportedField = errors.New("statepack: struct field type has no descriptor mapping")
)
