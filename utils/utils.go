package utils

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// GetNthBit finds the bit in the byte array bs
// at offset offset, and determines whether it is 1 or 0.
// return true if the nth bit is 1, false otherwise.
// from MSB to LSB order
func GetNthBit(bs []byte, offset uint32) bool {
	arrayOffset := offset / 8
	bitOfByte := offset % 8

	masked := int(bs[arrayOffset] & (1 << uint(7-bitOfByte)))
	return masked != 0
}

// SetNthBit sets the bit at offset in bs, counting from the MSB
// of the first byte.
func SetNthBit(bs []byte, offset uint32) {
	bs[offset/8] |= (1 << 7) >> (offset % 8)
}

// UInt16ToBytes converts an uint16 variable to byte array
// in big endian format
func UInt16ToBytes(num uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, num)
	return buf
}

// BytesToUInt16 reads a big endian uint16 from the first two bytes of buf.
func BytesToUInt16(buf []byte) uint16 {
	return binary.BigEndian.Uint16(buf)
}

// CommonPrefix returns the longest common prefix of a and b.
// The returned slice aliases a.
func CommonPrefix(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// IndexOf returns the index of the first occurrence of sub in bs,
// or -1 if sub is not present.
func IndexOf(bs, sub []byte) int {
	return bytes.Index(bs, sub)
}

// IsZero reports whether every byte of bs is 0.
func IsZero(bs []byte) bool {
	for _, b := range bs {
		if b != 0 {
			return false
		}
	}
	return true
}

// EncryptDecrypt XORs data[start:end] in place with the repeating key.
// The key stream restarts at start, so applying it twice with the
// same arguments restores the original bytes.
// An end of 0 means len(data).
func EncryptDecrypt(key, data []byte, start, end int) {
	if len(key) == 0 || IsZero(key) {
		return
	}
	if end == 0 || end > len(data) {
		end = len(data)
	}
	for i := start; i < end; i++ {
		data[i] ^= key[(i-start)%len(key)]
	}
}

// WriteFile writes buf to a file whose path is indicated by filename.
func WriteFile(filename string, buf []byte, perm os.FileMode) error {
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("Can't write file. File '%s' already exists\n",
			filename)
	}

	return os.WriteFile(filename, buf, perm)
}

// ResolvePath returns the absolute path of file.
// This will use other as a base path if file is just a file name.
func ResolvePath(file, other string) string {
	if !filepath.IsAbs(file) {
		file = filepath.Join(filepath.Dir(other), file)
	}
	return file
}
