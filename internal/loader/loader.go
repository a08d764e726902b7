// Package loader fetches blueprint documents. A document is fetched once per
// load; there are no retries.
package loader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/highwayhash"
	"github.com/specialistvlad/prefillgrid/internal/blueprint"
)

// Document is a decoded blueprint together with a fingerprint of its raw
// bytes. Equal fingerprints mean byte-identical documents.
type Document struct {
	Blueprint   *blueprint.Blueprint
	Fingerprint uint64
}

// Loader fetches a blueprint document.
type Loader interface {
	Load(ctx context.Context) (*Document, error)
	// Location describes where documents come from, for logging.
	Location() string
}

// New returns an HTTP loader for http and https locations and an object
// storage loader for everything else (plain paths, file://, mem://, ...).
func New(location string, timeout time.Duration) Loader {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTP(location, timeout)
	}
	return NewURL(location)
}

var fingerprintKey = []byte("prefillgrid-blueprint-hash-key!!")

// Fingerprint hashes raw document bytes.
func Fingerprint(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, err
	}
	if _, err := hash.Write(data); err != nil {
		return 0, err
	}
	return hash.Sum64(), nil
}

// decode turns raw bytes into a Document.
func decode(data []byte) (*Document, error) {
	bp, err := blueprint.Decode(data)
	if err != nil {
		return nil, err
	}
	sum, err := Fingerprint(data)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting blueprint: %w", err)
	}
	return &Document{Blueprint: bp, Fingerprint: sum}, nil
}
