// Copyright (c) 2026 Statekit (https://github.com/statekit)
//
// serde.go — Serialize and Deserialize orchestration: cookie prefixing,
// per-field converter fan-out with ordered join, length enforcement, and
// the sequential remainder-threaded decode chain.

package statepack

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Decoded is the result of Deserialize.
type Decoded struct {
	Cookie string
	Kind   any
	Values map[string]any
}

// Serialize encodes values against schema into one identifier:
// encode(cookie) followed by each field's fragment in schema order, no
// delimiters. Field conversions run concurrently and are joined back in
// field order. On any error no partial output is returned.
func (sz *Serializer) Serialize(ctx context.Context, schema Schema, values map[string]any) (string, error) {
	sz.stats.Serializes.Add(1)
	start := sz.cfg.Clock.Now()
	out, err := sz.serialize(ctx, schema, values)
	sz.metrics.RecordLatency("serialize", schema.Cookie, sz.cfg.Clock.Since(start))
	if err != nil {
		sz.stats.Errors.Add(1)
		sz.metrics.RecordError("serialize", schema.Cookie)
	}
	return out, err
}

func (sz *Serializer) serialize(ctx context.Context, schema Schema, values map[string]any) (string, error) {
	strConv, err := sz.reg.Resolve(Str)
	if err != nil {
		return "", err
	}
	cookieFrag, err := strConv.Encode(ctx, schema.Cookie)
	if err != nil {
		return "", fmt.Errorf("cookie: %w", err)
	}

	convs := make([]Converter, len(schema.Fields))
	vals := make([]any, len(schema.Fields))
	for i, f := range schema.Fields {
		v, ok := values[f.Name]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrMissingField, f.Name)
		}
		conv, err := sz.reg.Resolve(f.Type)
		if err != nil {
			return "", fmt.Errorf("field %q: %w", f.Name, err)
		}
		convs[i] = conv
		vals[i] = v
	}

	// Fan out the conversions; join the fragments by field index so the
	// concatenation order is schema order, never completion order.
	frags := make([]string, len(schema.Fields))
	errs := make([]error, len(schema.Fields))
	var wg sync.WaitGroup
	for i := range convs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			frags[i], errs[i] = convs[i].Encode(ctx, vals[i])
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return "", fmt.Errorf("field %q: %w", schema.Fields[i].Name, err)
		}
	}

	var b strings.Builder
	b.WriteString(cookieFrag)
	for _, frag := range frags {
		b.WriteString(frag)
	}
	out := b.String()
	if len(out) > MaxIdentifierLen {
		return "", fmt.Errorf("%w: component %q: got %d, limit %d",
			ErrOversize, schema.Cookie, len(out), MaxIdentifierLen)
	}
	return out, nil
}

// Deserialize decodes identifier: the cookie prefix is decoded with the
// string converter and looked up in src, then each schema field consumes its
// span from the remainder in order. Fields decode strictly left to right;
// any unconsumed trailing remainder is discarded.
func (sz *Serializer) Deserialize(ctx context.Context, identifier string, src SchemaSource) (Decoded, error) {
	sz.stats.Deserializes.Add(1)
	start := sz.cfg.Clock.Now()
	d, err := sz.deserialize(ctx, identifier, src)
	sz.metrics.RecordLatency("deserialize", d.Cookie, sz.cfg.Clock.Since(start))
	if err != nil {
		sz.stats.Errors.Add(1)
		sz.metrics.RecordError("deserialize", d.Cookie)
		sz.logger.Warn("statepack: deserialize failed", "cookie", d.Cookie, "err", err)
	}
	return d, err
}

func (sz *Serializer) deserialize(ctx context.Context, identifier string, src SchemaSource) (Decoded, error) {
	strConv, err := sz.reg.Resolve(Str)
	if err != nil {
		return Decoded{}, err
	}
	rest, rawCookie, err := strConv.Decode(ctx, identifier)
	if err != nil {
		return Decoded{}, fmt.Errorf("cookie: %w", err)
	}
	cookie, ok := rawCookie.(string)
	if !ok {
		return Decoded{}, fmt.Errorf("%w: cookie decoded as %T", ErrBadValue, rawCookie)
	}

	schema, ok := src.SchemaFor(cookie)
	if !ok {
		return Decoded{Cookie: cookie}, fmt.Errorf("%w: %q", ErrUnknownCookie, cookie)
	}

	values := make(map[string]any, len(schema.Fields))
	for _, f := range schema.Fields {
		conv, err := sz.reg.Resolve(f.Type)
		if err != nil {
			return Decoded{Cookie: cookie}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		var v any
		rest, v, err = conv.Decode(ctx, rest)
		if err != nil {
			return Decoded{Cookie: cookie}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		values[f.Name] = v
	}
	return Decoded{Cookie: cookie, Kind: schema.Kind, Values: values}, nil
}

// ────────────────────────────────────────────────────────────────────────────
// Package-level convenience
// ────────────────────────────────────────────────────────────────────────────

var defaultSerializer = NewSerializer(Config{})

// Serialize encodes values against schema using the default serializer.
func Serialize(ctx context.Context, schema Schema, values map[string]any) (string, error) {
	return defaultSerializer.Serialize(ctx, schema, values)
}

// Deserialize decodes identifier against src using the default serializer.
func Deserialize(ctx context.Context, identifier string, src SchemaSource) (Decoded, error) {
	return defaultSerializer.Deserialize(ctx, identifier, src)
}
