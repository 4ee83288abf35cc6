package format

import (
	"bufio"
	"errors"
	"io"

	"github.com/wbrown/janus-aggregate/rdf"
	"github.com/wbrown/janus-aggregate/rdf/storage"
)

// WriteNQuads drains it to w, one N-Quads line per statement, and closes
// it. It returns the number of statements written.
func WriteNQuads(w io.Writer, it storage.Iterator) (int, error) {
	bw := bufio.NewWriter(w)
	n := 0
	var werr error
	err := storage.Each(it, func(st rdf.Statement) bool {
		if _, werr = bw.WriteString(st.String() + "\n"); werr != nil {
			return false
		}
		n++
		return true
	})
	return n, errors.Join(werr, err, bw.Flush())
}
