package mantaray

import (
	"bytes"
	"fmt"

	"github.com/Solar-Punk-Ltd/mantaray-go/crypto"
	"github.com/Solar-Punk-Ltd/mantaray-go/utils"
)

const (
	nodeObfuscationKeySize = ObfuscationKeySize
	versionHashSize        = 31
	nodeRefBytesSize       = 1
	// nodeHeaderSize is the size of the fixed part of a serialized node
	// that precedes the entry.
	nodeHeaderSize = nodeObfuscationKeySize + versionHashSize + nodeRefBytesSize // 64
	nodeIndexSize  = utils.IndexBytesSize
)

const (
	versionName      = "mantaray"
	versionSeparator = ":"
	version01        = "0.1"
	version02        = "0.2"
)

var (
	version01Hash = versionHash(version01)
	version02Hash = versionHash(version02)
)

// versionHash returns the leading bytes of keccak256("mantaray:<version>").
func versionHash(version string) []byte {
	return crypto.Keccak256([]byte(versionName + versionSeparator + version))[:versionHashSize]
}

// MarshalBinary serializes the fork as
// nodeType | prefixLen | prefix (padded to 30 bytes) | child reference,
// followed by the metadata length and JSON when the child carries
// metadata. The child must have been saved.
func (f *Fork) MarshalBinary() ([]byte, error) {
	nodeType, err := f.Node.Type()
	if err != nil {
		return nil, err
	}
	if len(f.Prefix) == 0 || len(f.Prefix) > nodePrefixMaxSize {
		return nil, fmt.Errorf("%w: prefix length %d", ErrFormat, len(f.Prefix))
	}
	ref := f.Node.ContentAddress()
	if ref == nil {
		return nil, ErrNotSaved
	}

	buf := make([]byte, 0, nodeForkPreReferenceSize+len(ref))
	buf = append(buf, byte(nodeType), byte(len(f.Prefix)))
	prefix := make([]byte, nodePrefixMaxSize)
	copy(prefix, f.Prefix)
	buf = append(buf, prefix...)
	buf = append(buf, ref...)

	if f.Node.IsWithMetadataType() {
		// a decoded zero-length block leaves metadata nil
		metadataBytes, err := encodeMetadata(f.Node.metadata)
		if err != nil {
			return nil, err
		}
		buf = append(buf, utils.UInt16ToBytes(uint16(len(metadataBytes)))...)
		buf = append(buf, metadataBytes...)
	}
	return buf, nil
}

// ForkMetadataSizes describes a fork record that carries metadata.
type ForkMetadataSizes struct {
	RefBytesSize     int
	MetadataByteSize int
}

// UnmarshalFork decodes a single fork record. The child node inherits
// obfuscationKey and takes its type verbatim from the record. Until it
// is loaded, both its entry and its content address hold the reference
// of the child's own serialization. withMetadata must be given for
// records whose type carries TypeWithMetadata.
func UnmarshalFork(data []byte, obfuscationKey []byte, withMetadata *ForkMetadataSizes) (*Fork, error) {
	if len(data) < nodeForkPreReferenceSize {
		return nil, fmt.Errorf("%w: fork record of %d bytes", ErrFormat, len(data))
	}
	nodeType := NodeType(data[0])
	prefixLength := int(data[1])
	if prefixLength == 0 || prefixLength > nodePrefixMaxSize {
		return nil, fmt.Errorf("%w: prefix length of fork must be in 1..%d, got %d",
			ErrFormat, nodePrefixMaxSize, prefixLength)
	}
	prefix := append([]byte{}, data[nodeForkHeaderSize:nodeForkHeaderSize+prefixLength]...)

	node := New()
	if err := node.SetObfuscationKey(obfuscationKey); err != nil {
		return nil, err
	}

	if withMetadata != nil {
		refEnd := nodeForkPreReferenceSize + withMetadata.RefBytesSize
		metadataStart := refEnd + nodeForkMetadataBytesSize
		metadataEnd := metadataStart + withMetadata.MetadataByteSize
		if len(data) < metadataEnd {
			return nil, fmt.Errorf("%w: fork record of %d bytes, need %d", ErrFormat, len(data), metadataEnd)
		}
		if err := node.SetEntry(data[nodeForkPreReferenceSize:refEnd]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		if withMetadata.MetadataByteSize > 0 {
			metadata, err := decodeMetadata(data[metadataStart:metadataEnd])
			if err != nil {
				return nil, err
			}
			node.SetMetadata(metadata)
		}
	} else {
		if err := node.SetEntry(data[nodeForkPreReferenceSize:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	}
	node.SetType(nodeType)
	// the child is persisted under the reference it was decoded with
	if err := node.SetContentAddress(node.entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	return &Fork{Prefix: prefix, Node: node}, nil
}

// MarshalBinary serializes the node. Every fork's child must have a
// content address. Missing fields are defaulted first: a zero
// obfuscation key, a zero entry and an empty fork mapping.
func (n *Node) MarshalBinary() ([]byte, error) {
	if n.obfuscationKey == nil {
		n.obfuscationKey = make([]byte, ObfuscationKeySize)
	}
	if n.forks == nil {
		if n.entry == nil {
			return nil, fmt.Errorf("%w: %q", ErrUninitializedField, "entry")
		}
		n.forks = make(map[byte]*Fork)
	}
	if n.entry == nil {
		n.entry = ZeroReference()
	}
	if err := n.entry.Validate(); err != nil {
		return nil, err
	}

	var index utils.IndexBytes
	for k := range n.forks {
		index.SetByte(k)
	}

	buf := make([]byte, 0, nodeHeaderSize+len(n.entry)+nodeIndexSize)
	buf = append(buf, n.obfuscationKey...)
	buf = append(buf, version02Hash...)
	buf = append(buf, byte(len(n.entry)))
	buf = append(buf, n.entry...)
	buf = append(buf, index[:]...)

	if err := index.ForEach(func(k byte) error {
		f := n.forks[k]
		if f == nil {
			return fmt.Errorf("%w: fork indexing error under key %d", ErrForksUndefined, k)
		}
		b, err := f.MarshalBinary()
		if err != nil {
			return err
		}
		buf = append(buf, b...)
		return nil
	}); err != nil {
		return nil, err
	}

	utils.EncryptDecrypt(n.obfuscationKey, buf, nodeObfuscationKeySize, len(buf))
	return buf, nil
}

// UnmarshalBinary decodes data into n. data is not modified, and n is
// left untouched when an error is returned.
//
// The type of a node is stored by its parent, so n only learns
// TypeEdge (when it has forks) and TypeValue (when its entry is not
// zero). Every fork's child is created unloaded, with its reference as
// entry; see LoadAllNodes.
func (n *Node) UnmarshalBinary(data []byte) error {
	decoded := &Node{
		nodeType: n.nodeType,
		typeSet:  n.typeSet,
		metadata: n.metadata,
	}
	if err := decoded.unmarshalBinary(data); err != nil {
		return err
	}
	*n = *decoded
	return nil
}

func (n *Node) unmarshalBinary(data []byte) error {
	if len(data) < nodeHeaderSize {
		return fmt.Errorf("%w: serialised input too short", ErrFormat)
	}
	data = append([]byte{}, data...)

	n.obfuscationKey = append([]byte{}, data[:nodeObfuscationKeySize]...)
	utils.EncryptDecrypt(n.obfuscationKey, data, nodeObfuscationKeySize, len(data))

	version := data[nodeObfuscationKeySize : nodeObfuscationKeySize+versionHashSize]
	switch {
	case bytes.Equal(version, version01Hash):
		return fmt.Errorf("%w: version %s", ErrUnimplementedVersion, version01)
	case bytes.Equal(version, version02Hash):
	default:
		return fmt.Errorf("%w: wrong mantaray version", ErrFormat)
	}

	refBytesSize := int(data[nodeHeaderSize-1])
	offset := nodeHeaderSize + refBytesSize
	if len(data) < offset+nodeIndexSize {
		return fmt.Errorf("%w: not enough bytes for entry and fork index", ErrFormat)
	}
	if err := n.SetEntry(data[nodeHeaderSize:offset]); err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}

	index := utils.NewIndexBytes(data[offset : offset+nodeIndexSize])
	offset += nodeIndexSize
	if !index.IsEmpty() {
		n.makeEdge()
	}
	n.forks = make(map[byte]*Fork)

	return index.ForEach(func(k byte) error {
		if len(data) < offset+nodeForkTypeBytesSize {
			return fmt.Errorf("%w: not enough bytes to read fork type at offset %d", ErrFormat, offset)
		}
		nodeType := NodeType(data[offset])
		nodeForkSize := nodeForkPreReferenceSize + refBytesSize

		var (
			f   *Fork
			err error
		)
		if nodeType.IsWithMetadata() {
			if len(data) < offset+nodeForkSize+nodeForkMetadataBytesSize {
				return fmt.Errorf("%w: not enough bytes for metadata fork under key %d", ErrFormat, k)
			}
			metadataByteSize := int(utils.BytesToUInt16(data[offset+nodeForkSize:]))
			nodeForkSize += nodeForkMetadataBytesSize + metadataByteSize
			if len(data) < offset+nodeForkSize {
				return fmt.Errorf("%w: not enough bytes for metadata of fork under key %d", ErrFormat, k)
			}
			f, err = UnmarshalFork(data[offset:offset+nodeForkSize], n.obfuscationKey, &ForkMetadataSizes{
				RefBytesSize:     refBytesSize,
				MetadataByteSize: metadataByteSize,
			})
		} else {
			if len(data) < offset+nodeForkSize {
				return fmt.Errorf("%w: not enough bytes to read fork at offset %d", ErrFormat, offset)
			}
			f, err = UnmarshalFork(data[offset:offset+nodeForkSize], n.obfuscationKey, nil)
		}
		if err != nil {
			return err
		}
		n.forks[k] = f
		offset += nodeForkSize
		return nil
	})
}
