// Copyright (c) 2026 Statekit (https://github.com/statekit)
//
// msgpack.go — MessagePack codec implementation; the default codec for
// blob fields, where every byte of the marshaled payload counts against
// the identifier length limit.

package codec

import "github.com/vmihailenco/msgpack/v5"

// MsgPack is a compact codec using MessagePack encoding.
type MsgPack struct{}

// Marshal serializes v to MessagePack bytes.
func (MsgPack) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal deserializes MessagePack bytes into v.
func (MsgPack) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// Name returns "msgpack".
func (MsgPack) Name() string { return "msgpack" }

// Default is the default codec instance.
var Default Codec = MsgPack{}
