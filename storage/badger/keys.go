package badger

import (
	"encoding/binary"

	"github.com/frapercan/FANTASIA/core"
)

// Key prefix for embedding records
const embeddingRecordPrefix = "embrec"

// makeEmbeddingKey generates the key for an (accession, type id) pair.
// Format: prefix:accession:typeID, with the type id fixed-width at the end
// so accessions may contain any byte.
func makeEmbeddingKey(accession string, typeID core.EmbeddingTypeID) []byte {
	prefix := embeddingRecordPrefix + ":"
	totalSize := len(prefix) + len(accession) + 1 + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], accession)
	buf[offset] = ':'
	offset++
	// Write in BigEndian order so lexicographic sort follows type id
	binary.BigEndian.PutUint64(buf[offset:], uint64(typeID))
	return buf
}

// embeddingKeyPrefix returns the iteration prefix covering all embedding
// records.
func embeddingKeyPrefix() []byte {
	return []byte(embeddingRecordPrefix + ":")
}
