// Package fingerprint computes the deterministic content hash that
// decides whether a model generation can be reused.
//
// The fingerprint is the staleness oracle for the whole rebuild
// engine: it must change if and only if a semantically relevant input
// changed. The hashed field set is therefore a hard contract, not an
// implementation detail; see the field-by-field list on Compute.
package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/dawoe/modelforge/internal/schema"
	"github.com/dawoe/modelforge/internal/source"
)

// Fingerprint is an opaque deterministic hash over schema descriptors
// and source fragments. It doubles as the persisted artifact store's
// lookup key, so it must be stable across processes and restarts.
type Fingerprint string

// Domain prefix for content hashing. The version suffix enables a
// future pre-image or algorithm migration without colliding with
// artifacts persisted by older builds.
const domainGeneration = "modelforge/generation/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) Fingerprint {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// Compute returns the fingerprint of the given source fragments and
// type descriptors. The result is independent of input collection
// ordering: both collections are sorted before hashing, as are each
// descriptor's mixins and properties.
//
// Hashed, in fixed order:
//   - each fragment as "path::text", fragments sorted by path
//   - each descriptor's id, alias, clrName, parentId, name,
//     description, itemType, sorted mixin ids, and properties sorted
//     by alias with alias, clrName, name, description, typeFullName
//
// TypeDescriptor.Origin is bookkeeping and is deliberately excluded.
func Compute(fragments []source.Fragment, types []schema.TypeDescriptor) (Fingerprint, error) {
	pre, err := Preimage(fragments, types)
	if err != nil {
		return "", err
	}
	return hashWithDomain(domainGeneration, pre), nil
}

// Preimage returns the canonical byte stream that Compute hashes.
// Exposed so tests can pin the exact pre-image encoding: a silent
// change here would orphan every persisted artifact.
func Preimage(fragments []source.Fragment, types []schema.TypeDescriptor) ([]byte, error) {
	obj := []any{
		"source", fragmentPreimage(fragments),
		"types", typePreimage(types),
	}

	var buf bytes.Buffer
	if err := encodeCanonical(&buf, obj); err != nil {
		return nil, fmt.Errorf("fingerprint pre-image: %w", err)
	}
	return buf.Bytes(), nil
}

func fragmentPreimage(fragments []source.Fragment) []any {
	sorted := make([]source.Fragment, len(fragments))
	copy(sorted, fragments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	out := make([]any, len(sorted))
	for i, f := range sorted {
		out[i] = f.Path + "::" + f.Text
	}
	return out
}

func typePreimage(types []schema.TypeDescriptor) []any {
	sorted := make([]schema.TypeDescriptor, len(types))
	copy(sorted, types)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := strings.ToLower(sorted[i].Alias), strings.ToLower(sorted[j].Alias)
		if a != b {
			return a < b
		}
		return sorted[i].ID < sorted[j].ID
	})

	out := make([]any, len(sorted))
	for i, t := range sorted {
		mixins := make([]int64, len(t.Mixins))
		copy(mixins, t.Mixins)
		sort.Slice(mixins, func(i, j int) bool { return mixins[i] < mixins[j] })
		mixinList := make([]any, len(mixins))
		for j, id := range mixins {
			mixinList[j] = id
		}

		out[i] = []any{
			t.ID,
			t.Alias,
			t.ClrName,
			t.ParentID,
			t.Name,
			t.Description,
			string(t.ItemType),
			mixinList,
			propertyPreimage(t.Properties),
		}
	}
	return out
}

func propertyPreimage(props []schema.PropertyDescriptor) []any {
	sorted := make([]schema.PropertyDescriptor, len(props))
	copy(sorted, props)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Alias) < strings.ToLower(sorted[j].Alias)
	})

	out := make([]any, len(sorted))
	for i, p := range sorted {
		out[i] = []any{p.Alias, p.ClrName, p.Name, p.Description, p.TypeFullName}
	}
	return out
}
