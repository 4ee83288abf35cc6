package rdf

import (
	"github.com/minio/highwayhash"
)

var hashKey = []byte("janus-aggregate/statement-hash!!")

// Hash returns a 64-bit HighwayHash of the statement's canonical encoding.
// Equal statements always hash equally; distinct statements may collide.
func (st Statement) Hash() uint64 {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		// Only fails for a key that is not 32 bytes
		panic(err)
	}
	var buf [128]byte
	h.Write(AppendStatement(buf[:0], st.Subject, st.Predicate, st.Object, st.Graph))
	return h.Sum64()
}
