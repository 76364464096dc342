package domain

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// GenerateIncludeIdentity fingerprints an include search configuration.
// Directory order is significant because it decides which header a name resolves to.
func GenerateIncludeIdentity(includeDirs, sysIncludeDirs []string) string {
	d := newDigest()
	d.section("include", includeDirs...)
	d.section("sysinclude", sysIncludeDirs...)
	return d.sum()
}

// GenerateFlagsSignature fingerprints everything except the sources that decides what a tool produces.
// Defines are sorted so that map iteration order does not leak into the signature.
func GenerateFlagsSignature(kind ToolKind, command, flags []string, defines map[string]string) string {
	names := make([]string, 0, len(defines))
	for name := range defines {
		names = append(names, name)
	}
	slices.Sort(names)

	d := newDigest()
	d.section("kind", kind.String())
	d.section("command", command...)
	d.section("flags", flags...)
	for _, name := range names {
		d.section("define", name, defines[name])
	}
	return d.sum()
}

// digest hashes named sections of values. Values are NUL-prefixed and sections end with
// 0x01, so no two different lists produce the same input.
type digest struct {
	h *xxhash.Digest
}

func newDigest() digest {
	return digest{h: xxhash.New()}
}

func (d digest) section(name string, values ...string) {
	_, _ = d.h.WriteString(name)
	for _, v := range values {
		_, _ = d.h.WriteString("\x00")
		_, _ = d.h.WriteString(v)
	}
	_, _ = d.h.WriteString("\x01")
}

func (d digest) sum() string {
	return fmt.Sprintf("%016x", d.h.Sum64())
}
