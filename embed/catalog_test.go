package embed

import (
	"testing"

	"github.com/frapercan/FANTASIA/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultModelName(t *testing.T) {
	assert.Equal(t, "facebook/esm2_t33_650M_UR50D", DefaultModelName(TypeESM2))
	assert.Equal(t, "Rostlab/ProstT5", DefaultModelName(TypeProstT5))
	assert.Equal(t, "Rostlab/prot_t5_xl_uniref50", DefaultModelName(TypeProtT5))
	assert.Equal(t, "", DefaultModelName(core.EmbeddingTypeID(99)))
}

func TestCatalogTypes(t *testing.T) {
	assert.Equal(t, []core.EmbeddingTypeID{TypeESM2, TypeProstT5, TypeProtT5}, CatalogTypes())
}

func TestFamilyShaper_ESM2(t *testing.T) {
	shaper, ok := FamilyShaper(TypeESM2)
	require.True(t, ok)

	// ESM input stays contiguous, only case changes.
	assert.Equal(t, "MKTAYIAK", shaper.Shape("mktayiak"))
	assert.Equal(t, "MUZB", shaper.Shape("MUZB"))
}

func TestFamilyShaper_ProtT5(t *testing.T) {
	shaper, ok := FamilyShaper(TypeProtT5)
	require.True(t, ok)

	tests := []struct {
		name     string
		residues string
		want     string
	}{
		{"plain sequence", "MKV", "M K V"},
		{"lowercase input", "mkv", "M K V"},
		{"rare residues become X", "MUZOB", "M X X X X"},
		{"single residue", "M", "M"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shaper.Shape(tt.residues))
		})
	}
}

func TestFamilyShaper_ProstT5(t *testing.T) {
	shaper, ok := FamilyShaper(TypeProstT5)
	require.True(t, ok)

	assert.Equal(t, "<AA2fold> M K V", shaper.Shape("MKV"))
	assert.Equal(t, "<AA2fold> M X X", shaper.Shape("muz"))
	assert.Equal(t, "<AA2fold>", shaper.Shape(""))
}

func TestFamilyShaper_UnknownType(t *testing.T) {
	_, ok := FamilyShaper(core.EmbeddingTypeID(42))
	assert.False(t, ok)
}
