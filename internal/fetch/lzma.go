package fetch

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// decompress inflates a Dukascopy .bi5 payload. The format is the classic
// "LZMA_Alone" stream (what ulikunitz/xz/lzma.NewReader expects), not the
// newer .xz container.
func decompress(data []byte) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
