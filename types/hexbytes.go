package types

import (
	"encoding/hex"
	"fmt"

	"github.com/grapevine-zk/grapevine/util"
)

// HexBytes is a byte slice that marshals to and from a "0x"-prefixed hex
// string in JSON, the external encoding the protocol uses for addresses,
// nullifiers, and other fixed-width byte values.
type HexBytes []byte

// String returns the "0x"-prefixed hex encoding.
func (b HexBytes) String() string {
	return "0x" + hex.EncodeToString(b)
}

// MarshalJSON implements json.Marshaler.
func (b HexBytes) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, b.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *HexBytes) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	s = util.TrimHex(s)
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex bytes %q: %w", s, err)
	}
	*b = decoded
	return nil
}
