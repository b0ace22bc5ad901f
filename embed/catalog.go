package embed

import (
	"strings"

	"github.com/frapercan/FANTASIA/core"
)

// Embedding type ids of the built-in model families. The numeric values are
// part of the storage format and must never be reassigned.
const (
	TypeESM2    core.EmbeddingTypeID = 1
	TypeProstT5 core.EmbeddingTypeID = 2
	TypeProtT5  core.EmbeddingTypeID = 3
)

// prostPrefix steers ProstT5 into amino-acid-to-fold mode.
const prostPrefix = "<AA2fold>"

type family struct {
	name   string
	shaper Shaper
}

var families = map[core.EmbeddingTypeID]family{
	TypeESM2:    {name: "facebook/esm2_t33_650M_UR50D", shaper: ShaperFunc(rawShape)},
	TypeProstT5: {name: "Rostlab/ProstT5", shaper: ShaperFunc(prostShape)},
	TypeProtT5:  {name: "Rostlab/prot_t5_xl_uniref50", shaper: ShaperFunc(spacedShape)},
}

// DefaultModelName returns the canonical checkpoint name for a built-in
// family, or the empty string when id is not in the catalog.
func DefaultModelName(id core.EmbeddingTypeID) string {
	return families[id].name
}

// FamilyShaper returns the input shaper for a built-in family.
func FamilyShaper(id core.EmbeddingTypeID) (Shaper, bool) {
	f, ok := families[id]
	if !ok {
		return nil, false
	}
	return f.shaper, true
}

// CatalogTypes returns the built-in embedding type ids in ascending order.
func CatalogTypes() []core.EmbeddingTypeID {
	return []core.EmbeddingTypeID{TypeESM2, TypeProstT5, TypeProtT5}
}

// rawShape passes residues through unchanged apart from case. ESM tokenizers
// consume the bare sequence.
func rawShape(residues string) string {
	return strings.ToUpper(residues)
}

// spacedShape prepares residues for T5-style tokenizers: uppercase, rare
// residues (U, Z, O, B) replaced by X, one space between positions.
func spacedShape(residues string) string {
	upper := strings.ToUpper(residues)
	var b strings.Builder
	b.Grow(len(upper) * 2)
	for i := 0; i < len(upper); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch c := upper[i]; c {
		case 'U', 'Z', 'O', 'B':
			b.WriteByte('X')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// prostShape is spacedShape plus the ProstT5 direction prefix.
func prostShape(residues string) string {
	if residues == "" {
		return prostPrefix
	}
	return prostPrefix + " " + spacedShape(residues)
}
