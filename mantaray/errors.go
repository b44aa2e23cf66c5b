package mantaray

import "errors"

var (
	// ErrFormat indicates that serialized data is malformed: truncated,
	// carrying an unknown version or an out of range field.
	ErrFormat = errors.New("[mantaray] Invalid serialized data")
	// ErrUnimplementedVersion indicates a known but unsupported
	// serialization version.
	ErrUnimplementedVersion = errors.New("[mantaray] Not implemented")
	// ErrNotFound indicates that no fork matches the requested path.
	ErrNotFound = errors.New("[mantaray] Not found")
	// ErrEmptyPath indicates an operation that requires a non-empty path.
	ErrEmptyPath = errors.New("[mantaray] Empty path")
	// ErrUninitializedField indicates that a field was read before it
	// was ever set.
	ErrUninitializedField = errors.New("[mantaray] Field is not initialized")
	// ErrNotSaved indicates that a fork's child has no content address
	// and therefore cannot be referenced by its parent.
	ErrNotSaved = errors.New("[mantaray] Fork node does not have a content address")
	// ErrForksUndefined indicates that the fork mapping of a clean
	// node was never initialised.
	ErrForksUndefined = errors.New("[mantaray] Fork mapping is not defined in the manifest")
	// ErrInvalidReference indicates a reference that is not 32 or 64
	// bytes long.
	ErrInvalidReference = errors.New("[mantaray] Invalid reference length")
	// ErrInvalidObfuscationKey indicates an obfuscation key that is
	// not exactly 32 bytes long.
	ErrInvalidObfuscationKey = errors.New("[mantaray] Invalid obfuscation key length")
	// ErrMetadataTooLarge indicates encoded metadata that does not fit
	// its 2-byte length field.
	ErrMetadataTooLarge = errors.New("[mantaray] Metadata too large")
	// ErrNodesNotEqual is returned by EqualNodes on the first mismatch.
	ErrNodesNotEqual = errors.New("[mantaray] Nodes are not equal")
)
