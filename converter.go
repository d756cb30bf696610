package statepack

import (
	"context"
	"fmt"
	"math"
	"math/bits"

	"github.com/google/uuid"
	"github.com/statekit/statepack/internal/codec"
)

// ────────────────────────────────────────────────────────────────────────────
// Contract
// ────────────────────────────────────────────────────────────────────────────

// Converter turns one typed value into an identifier fragment and back.
// Fragments carry no delimiters: each converter is self-describing in length
// (fixed-width or length-prefixed), so Decode consumes exactly its own span
// from the front of the input and returns the rest.
//
// Converters are constructed fresh for every resolution and used for a
// single call; they are never shared.
type Converter interface {
	// Encode returns the fragment for v. Every byte of the fragment must be
	// in the 0x00–0xFF range mapped 1:1, so raw byte packing is safe.
	Encode(ctx context.Context, v any) (string, error)
	// Decode consumes this converter's span from the front of s and returns
	// the unconsumed remainder alongside the decoded value.
	Decode(ctx context.Context, s string) (remainder string, v any, err error)
}

// ConverterFactory constructs a fresh Converter bound to the descriptor the
// registry resolved. The registry passes itself so converters that delegate
// to other encodings (int through string, enum through int) resolve their
// delegates against the same table.
type ConverterFactory func(bound Type, reg *Registry) Converter

// ────────────────────────────────────────────────────────────────────────────
// Built-in converters
// ────────────────────────────────────────────────────────────────────────────

// StringConverter encodes a string as one length byte followed by the raw
// bytes. Strings longer than 255 bytes do not fit the prefix and fail with
// ErrStringTooLong.
type StringConverter struct {
	// Bound is the descriptor this converter was resolved for. A subclass
	// scan binds the subtype, not the registration key.
	Bound Type
}

func (c *StringConverter) Encode(_ context.Context, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %T is not a string", ErrBadValue, v)
	}
	if len(s) > 255 {
		return "", fmt.Errorf("%w: got %d bytes", ErrStringTooLong, len(s))
	}
	return string([]byte{byte(len(s))}) + s, nil
}

func (c *StringConverter) Decode(_ context.Context, s string) (string, any, error) {
	if len(s) < 1 {
		return "", nil, fmt.Errorf("%w: no length byte", ErrTruncated)
	}
	n := int(s[0])
	if len(s) < 1+n {
		return "", nil, fmt.Errorf("%w: length byte says %d, %d available", ErrTruncated, n, len(s)-1)
	}
	return s[1+n:], s[1 : 1+n], nil
}

// IntConverter encodes an integer as its minimal little-endian
// two's-complement bytes, length-prefixed through the string encoding.
// Non-negative values always leave the top bit of the final byte clear, so
// sign extension on decode is unambiguous.
type IntConverter struct {
	Bound Type

	reg *Registry
}

func (c *IntConverter) Encode(ctx context.Context, v any) (string, error) {
	n, err := toInt64(v)
	if err != nil {
		return "", err
	}
	delegate, err := c.registry().Resolve(Str)
	if err != nil {
		return "", err
	}
	return delegate.Encode(ctx, packInt(n))
}

func (c *IntConverter) Decode(ctx context.Context, s string) (string, any, error) {
	delegate, err := c.registry().Resolve(Str)
	if err != nil {
		return "", nil, err
	}
	rest, raw, err := delegate.Decode(ctx, s)
	if err != nil {
		return "", nil, err
	}
	payload, ok := raw.(string)
	if !ok {
		return "", nil, fmt.Errorf("%w: string delegate returned %T", ErrBadValue, raw)
	}
	n, err := unpackInt(payload)
	if err != nil {
		return "", nil, err
	}
	return rest, n, nil
}

func (c *IntConverter) registry() *Registry {
	if c.reg != nil {
		return c.reg
	}
	return DefaultRegistry
}

// FloatConverter encodes a float64 as its 8 IEEE-754 bytes, little-endian,
// with no prefix. Decode consumes exactly 8 bytes.
type FloatConverter struct {
	Bound Type
}

func (c *FloatConverter) Encode(_ context.Context, v any) (string, error) {
	f, err := toFloat64(v)
	if err != nil {
		return "", err
	}
	u := math.Float64bits(f)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (8 * i))
	}
	return string(b), nil
}

func (c *FloatConverter) Decode(_ context.Context, s string) (string, any, error) {
	if len(s) < 8 {
		return "", nil, fmt.Errorf("%w: float needs 8 bytes, %d available", ErrTruncated, len(s))
	}
	var u uint64
	for i := 0; i < 8; i++ {
		u |= uint64(s[i]) << (8 * i)
	}
	return s[8:], math.Float64frombits(u), nil
}

// BoolConverter encodes a bool as a single byte, 't' or 'f'. Decode consumes
// one byte and reports true iff it is 't'.
type BoolConverter struct {
	Bound Type
}

func (c *BoolConverter) Encode(_ context.Context, v any) (string, error) {
	b, ok := v.(bool)
	if !ok {
		return "", fmt.Errorf("%w: %T is not a bool", ErrBadValue, v)
	}
	if b {
		return "t", nil
	}
	return "f", nil
}

func (c *BoolConverter) Decode(_ context.Context, s string) (string, any, error) {
	if len(s) < 1 {
		return "", nil, fmt.Errorf("%w: bool needs 1 byte", ErrTruncated)
	}
	return s[1:], s[0] == 't', nil
}

// EnumConverter encodes an enum member's underlying integer value through
// the int encoding. Both directions validate membership when the bound
// descriptor is a concrete EnumType.
type EnumConverter struct {
	Bound Type

	reg *Registry
}

func (c *EnumConverter) Encode(ctx context.Context, v any) (string, error) {
	n, err := toInt64(v)
	if err != nil {
		return "", err
	}
	if e, ok := c.Bound.(*EnumType); ok && !e.Has(n) {
		return "", fmt.Errorf("%w: %d in %s", ErrEnumValue, n, e.Name())
	}
	delegate, err := c.registry().Resolve(Int)
	if err != nil {
		return "", err
	}
	return delegate.Encode(ctx, n)
}

func (c *EnumConverter) Decode(ctx context.Context, s string) (string, any, error) {
	delegate, err := c.registry().Resolve(Int)
	if err != nil {
		return "", nil, err
	}
	rest, raw, err := delegate.Decode(ctx, s)
	if err != nil {
		return "", nil, err
	}
	n, ok := raw.(int64)
	if !ok {
		return "", nil, fmt.Errorf("%w: int delegate returned %T", ErrBadValue, raw)
	}
	if e, ok := c.Bound.(*EnumType); ok && !e.Has(n) {
		return "", nil, fmt.Errorf("%w: %d in %s", ErrEnumValue, n, e.Name())
	}
	return rest, n, nil
}

func (c *EnumConverter) registry() *Registry {
	if c.reg != nil {
		return c.reg
	}
	return DefaultRegistry
}

// UUIDConverter encodes a uuid.UUID as its 16 raw bytes, fixed width, no
// prefix.
type UUIDConverter struct {
	Bound Type
}

func (c *UUIDConverter) Encode(_ context.Context, v any) (string, error) {
	u, ok := v.(uuid.UUID)
	if !ok {
		return "", fmt.Errorf("%w: %T is not a uuid.UUID", ErrBadValue, v)
	}
	return string(u[:]), nil
}

func (c *UUIDConverter) Decode(_ context.Context, s string) (string, any, error) {
	if len(s) < 16 {
		return "", nil, fmt.Errorf("%w: uuid needs 16 bytes, %d available", ErrTruncated, len(s))
	}
	var u uuid.UUID
	copy(u[:], s[:16])
	return s[16:], u, nil
}

// BlobConverter marshals an arbitrary value through a blob codec and packs
// the bytes with the string encoding. It is the escape hatch for one small
// structured field; the length prefix and the identifier budget keep it
// honest. Decode returns the codec's generic decoding (maps, slices,
// primitives), not a concrete struct.
type BlobConverter struct {
	Bound Type
	Codec BlobCodec

	reg *Registry
}

func (c *BlobConverter) Encode(ctx context.Context, v any) (string, error) {
	b, err := c.codec().Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadValue, err)
	}
	delegate, err := c.registry().Resolve(Str)
	if err != nil {
		return "", err
	}
	return delegate.Encode(ctx, string(b))
}

func (c *BlobConverter) Decode(ctx context.Context, s string) (string, any, error) {
	delegate, err := c.registry().Resolve(Str)
	if err != nil {
		return "", nil, err
	}
	rest, raw, err := delegate.Decode(ctx, s)
	if err != nil {
		return "", nil, err
	}
	payload, ok := raw.(string)
	if !ok {
		return "", nil, fmt.Errorf("%w: string delegate returned %T", ErrBadValue, raw)
	}
	var v any
	if err := c.codec().Unmarshal([]byte(payload), &v); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadValue, err)
	}
	return rest, v, nil
}

func (c *BlobConverter) codec() BlobCodec {
	if c.Codec != nil {
		return c.Codec
	}
	return codec.Default
}

func (c *BlobConverter) registry() *Registry {
	if c.reg != nil {
		return c.reg
	}
	return DefaultRegistry
}

// ────────────────────────────────────────────────────────────────────────────
// Factories
// ────────────────────────────────────────────────────────────────────────────

// NewStringConverter is the ConverterFactory for StringConverter.
func NewStringConverter(bound Type, _ *Registry) Converter {
	return &StringConverter{Bound: bound}
}

// NewIntConverter is the ConverterFactory for IntConverter.
func NewIntConverter(bound Type, reg *Registry) Converter {
	return &IntConverter{Bound: bound, reg: reg}
}

// NewFloatConverter is the ConverterFactory for FloatConverter.
func NewFloatConverter(bound Type, _ *Registry) Converter {
	return &FloatConverter{Bound: bound}
}

// NewBoolConverter is the ConverterFactory for BoolConverter.
func NewBoolConverter(bound Type, _ *Registry) Converter {
	return &BoolConverter{Bound: bound}
}

// NewEnumConverter is the ConverterFactory for EnumConverter.
func NewEnumConverter(bound Type, reg *Registry) Converter {
	return &EnumConverter{Bound: bound, reg: reg}
}

// NewUUIDConverter is the ConverterFactory for UUIDConverter.
func NewUUIDConverter(bound Type, _ *Registry) Converter {
	return &UUIDConverter{Bound: bound}
}

// NewBlobConverter is the ConverterFactory for BlobConverter with the
// default codec (MessagePack).
func NewBlobConverter(bound Type, reg *Registry) Converter {
	return &BlobConverter{Bound: bound, reg: reg}
}

// BlobConverterUsing returns a ConverterFactory whose converters marshal
// through blobCodec instead of the default codec.
func BlobConverterUsing(blobCodec BlobCodec) ConverterFactory {
	return func(bound Type, reg *Registry) Converter {
		return &BlobConverter{Bound: bound, Codec: blobCodec, reg: reg}
	}
}

// ────────────────────────────────────────────────────────────────────────────
// Encoding helpers
// ────────────────────────────────────────────────────────────────────────────

// packInt returns the minimal little-endian two's-complement bytes of v:
// bitlen/8+1 bytes for non-negative values, the mirrored width for negative
// ones.
func packInt(v int64) string {
	var n int
	if v >= 0 {
		n = bits.Len64(uint64(v))/8 + 1
	} else {
		n = (64-bits.LeadingZeros64(^uint64(v)))/8 + 1
	}
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = byte(uint64(v) >> (8 * i))
	}
	return string(b)
}

// unpackInt interprets raw as little-endian two's complement, sign-extending
// when the top bit of the final byte is set. An empty payload decodes to
// zero.
func unpackInt(raw string) (int64, error) {
	if len(raw) > 8 {
		return 0, fmt.Errorf("%w: integer payload is %d bytes", ErrBadValue, len(raw))
	}
	var u uint64
	for i := 0; i < len(raw); i++ {
		u |= uint64(raw[i]) << (8 * i)
	}
	if len(raw) > 0 && len(raw) < 8 && raw[len(raw)-1]&0x80 != 0 {
		u |= ^uint64(0) << (8 * len(raw))
	}
	return int64(u), nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrBadValue, n)
		}
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrBadValue, n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: %T is not an integer", ErrBadValue, v)
	}
}

func toFloat64(v any) (float64, error) {
	switch f := v.(type) {
	case float64:
		return f, nil
	case float32:
		return float64(f), nil
	default:
		return 0, fmt.Errorf("%w: %T is not a float", ErrBadValue, v)
	}
}
