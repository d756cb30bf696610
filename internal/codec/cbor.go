package codec

import "github.com/fxamacker/cbor/v2"

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	if cborEnc, err = cbor.CanonicalEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if cborDec, err = cbor.DecOptions{}.DecMode(); err != nil {
		panic(err)
	}
}

// CBOR is a deterministic codec using canonical CBOR encoding (RFC 8949
// core profile). Identical values always marshal to identical bytes.
type CBOR struct{}

// Marshal serializes v to canonical CBOR bytes.
func (CBOR) Marshal(v any) ([]byte, error) {
	return cborEnc.Marshal(v)
}

// Unmarshal deserializes CBOR bytes into v.
func (CBOR) Unmarshal(data []byte, v any) error {
	return cborDec.Unmarshal(data, v)
}

// Name returns "cbor".
func (CBOR) Name() string { return "cbor" }
