package utils

// IndexBytesSize is the size of an IndexBytes bitmap: one bit for each
// of the 256 possible byte values.
const IndexBytesSize = 32

// IndexBytes is a 256-bit presence bitmap. Bit k (MSB-first within
// byte k/8) is set iff byte value k is a member.
type IndexBytes [IndexBytesSize]byte

// NewIndexBytes returns an IndexBytes initialised from the first
// IndexBytesSize bytes of bs.
func NewIndexBytes(bs []byte) IndexBytes {
	var ib IndexBytes
	copy(ib[:], bs)
	return ib
}

// SetByte marks k as present.
func (ib *IndexBytes) SetByte(k byte) {
	SetNthBit(ib[:], uint32(k))
}

// CheckByte reports whether k is present.
func (ib *IndexBytes) CheckByte(k byte) bool {
	return GetNthBit(ib[:], uint32(k))
}

// IsEmpty reports whether no byte is present.
func (ib *IndexBytes) IsEmpty() bool {
	return IsZero(ib[:])
}

// ForEach calls visit for every present byte in ascending order and
// stops at the first error.
func (ib *IndexBytes) ForEach(visit func(k byte) error) error {
	for i := 0; i < 256; i++ {
		if !ib.CheckByte(byte(i)) {
			continue
		}
		if err := visit(byte(i)); err != nil {
			return err
		}
	}
	return nil
}
