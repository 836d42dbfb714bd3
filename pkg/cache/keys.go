package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Key kinds. A plate key holds the canonical label-keyed JSON of a plate;
// artifact keys hold its rendered outputs.
const (
	KindPlate    = "plate"
	KindArtifact = "artifact"
)

// optionsDigestLen is how many hex digits of the options hash go into an
// artifact key.
const optionsDigestLen = 16

// Keyer builds cache keys. Every key embeds the plate hash so that a
// backend can find all entries of one plate.
type Keyer interface {
	// PlateKey names the canonical label-keyed JSON of a plate.
	PlateKey(plateHash string) string
	// ArtifactKey names one rendered output of a plate.
	ArtifactKey(plateHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts is every render option that changes output bytes.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	MarkerSize float64 `json:"marker_size,omitempty"`
	TextSize   float64 `json:"text_size,omitempty"`
	TextColor  string  `json:"text_color,omitempty"`
	Colorscale string  `json:"colorscale,omitempty"`
	ShowScale  bool    `json:"show_scale,omitempty"`
	Zoom       float64 `json:"zoom,omitempty"`
}

// digest hashes the options other than the format.
func (o ArtifactKeyOpts) digest() string {
	o.Format = ""
	data, _ := json.Marshal(o)
	return Hash(data)[:optionsDigestLen]
}

// Key is a parsed cache key.
type Key struct {
	Kind   string
	Plate  string
	Format string // artifacts only
	Digest string // artifacts only
}

// DefaultKeyer produces unprefixed keys:
//
//	plate:<plate hash>
//	artifact:<plate hash>:<format>:<options digest>
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlateKey returns "plate:<hash>".
func (DefaultKeyer) PlateKey(plateHash string) string {
	return KindPlate + ":" + plateHash
}

// ArtifactKey returns "artifact:<hash>:<format>:<digest>".
func (DefaultKeyer) ArtifactKey(plateHash string, opts ArtifactKeyOpts) string {
	return strings.Join([]string{KindArtifact, plateHash, opts.Format, opts.digest()}, ":")
}

// scopedKeyer prepends a namespace to another keyer's keys.
type scopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner so that several users of one redis database
// keep separate namespaces:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "platemap:")
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return scopedKeyer{inner: inner, prefix: prefix}
}

func (k scopedKeyer) PlateKey(plateHash string) string {
	return k.prefix + k.inner.PlateKey(plateHash)
}

func (k scopedKeyer) ArtifactKey(plateHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(plateHash, opts)
}

// ParseKey splits a key built by [DefaultKeyer], with or without a scope
// prefix. ok is false for any other key, including ones whose plate hash is
// not a SHA-256 hex digest.
func ParseKey(key string) (k Key, ok bool) {
	parts := strings.Split(key, ":")
	n := len(parts)
	switch {
	case n >= 4 && parts[n-4] == KindArtifact:
		k = Key{Kind: KindArtifact, Plate: parts[n-3], Format: parts[n-2], Digest: parts[n-1]}
		ok = ValidPlateHash(k.Plate) && isToken(k.Format) && isHex(k.Digest)
	case n >= 2 && parts[n-2] == KindPlate:
		k = Key{Kind: KindPlate, Plate: parts[n-1]}
		ok = ValidPlateHash(k.Plate)
	}
	if !ok {
		return Key{}, false
	}
	return k, true
}

// Hash computes the SHA-256 hex digest of data. Plate hashes are Hash of
// the canonical export.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ValidPlateHash reports whether s has the shape of a [Hash] result.
func ValidPlateHash(s string) bool {
	return len(s) == sha256.Size*2 && isHex(s)
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

// isToken accepts format names: lowercase letters and digits.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
