package mantaray

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/Solar-Punk-Ltd/mantaray-go/utils"
)

const (
	// ReferenceSize is the size of a plain content reference.
	ReferenceSize = 32
	// EncryptedReferenceSize is the size of a reference carrying a
	// decryption key.
	EncryptedReferenceSize = 64
)

// Reference is an opaque content address, either 32 or 64 bytes long.
type Reference []byte

// ZeroReference returns an all-zero plain reference, used as the entry
// of nodes that do not address any content.
func ZeroReference() Reference {
	return make(Reference, ReferenceSize)
}

// ParseReference decodes a hex encoded reference.
func ParseReference(s string) (Reference, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	ref := Reference(b)
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return ref, nil
}

// Validate checks the length of the reference.
func (r Reference) Validate() error {
	if len(r) != ReferenceSize && len(r) != EncryptedReferenceSize {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidReference, len(r))
	}
	return nil
}

// IsZero reports whether every byte of r is 0.
func (r Reference) IsZero() bool {
	return utils.IsZero(r)
}

// Equal reports whether r and o are byte-for-byte equal.
func (r Reference) Equal(o Reference) bool {
	return bytes.Equal(r, o)
}

func (r Reference) String() string {
	return hex.EncodeToString(r)
}

// Metadata is the string to string mapping attached to a node.
// It is encoded as a JSON object.
type Metadata map[string]string

// Clone returns a copy of m.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	c := make(Metadata, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Equal reports whether m and o carry the same key/value pairs.
// A nil Metadata equals an empty one.
func (m Metadata) Equal(o Metadata) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		if ov, ok := o[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func encodeMetadata(m Metadata) ([]byte, error) {
	if m == nil {
		m = Metadata{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	if len(b) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMetadataTooLarge, len(b))
	}
	return b, nil
}

func decodeMetadata(b []byte) (Metadata, error) {
	m := Metadata{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", ErrFormat, err)
	}
	return m, nil
}
