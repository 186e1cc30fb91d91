package cache

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/minio/crc64nvme"
)

// Key identifies a cache entry: the endpoint name plus the serialized query
// arguments. Serialization is by value, so two argument structs that compare
// equal produce the same key no matter where they were built.
type Key struct {
	Endpoint string
	Args     string
}

// NewKey serializes args as canonical JSON (struct field order, sorted map keys).
func NewKey(endpoint string, args any) (Key, error) {
	if args == nil {
		return Key{Endpoint: endpoint}, nil
	}

	data, err := json.Marshal(args)
	if err != nil {
		return Key{}, fmt.Errorf("failed to serialize arguments for %s: %w", endpoint, err)
	}

	s := string(data)
	if s == "null" || s == "{}" {
		s = ""
	}

	return Key{Endpoint: endpoint, Args: s}, nil
}

// MustKey is NewKey for arguments known to serialize.
func MustKey(endpoint string, args any) Key {
	k, err := NewKey(endpoint, args)
	if err != nil {
		panic(err)
	}
	return k
}

func (k Key) String() string {
	return k.Endpoint + "(" + k.Args + ")"
}

// Digest returns a short CRC64-NVME digest of the key for log fields.
func (k Key) Digest() string {
	h := crc64nvme.New()
	_, _ = h.Write([]byte(k.String()))
	return strconv.FormatUint(h.Sum64(), 16)
}
