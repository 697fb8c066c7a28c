package types

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// BigInt is a big.Int that marshals to and from a decimal string in JSON and
// CBOR, matching the "twelve decimal strings" wire format the protocol uses
// for StepState and other field-element vectors.
type BigInt big.Int

// MathBigInt returns the value as a *big.Int.
func (b *BigInt) MathBigInt() *big.Int {
	return (*big.Int)(b)
}

// String implements fmt.Stringer.
func (b *BigInt) String() string {
	return b.MathBigInt().String()
}

// MarshalJSON encodes the value as a JSON string of its base-10 digits.
func (b BigInt) MarshalJSON() ([]byte, error) {
	bi := big.Int(b)
	return []byte(fmt.Sprintf(`"%s"`, bi.String())), nil
}

// UnmarshalJSON decodes a JSON string of base-10 digits into b.
func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	z, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("invalid decimal big.Int: %q", s)
	}
	*b = BigInt(*z)
	return nil
}

// MarshalCBOR encodes the value as a CBOR text string of its base-10 digits,
// mirroring MarshalJSON so a FoldedProof looks the same shape either way.
func (b BigInt) MarshalCBOR() ([]byte, error) {
	bi := big.Int(b)
	return cbor.Marshal(bi.String())
}

// UnmarshalCBOR decodes a CBOR text string of base-10 digits into b.
func (b *BigInt) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	z, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("invalid decimal big.Int: %q", s)
	}
	*b = BigInt(*z)
	return nil
}
