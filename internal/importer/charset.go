package importer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeUTF8 wraps r so its content reads as UTF-8. Source systems export
// with inconsistent encodings: BOMs are honored first, clean UTF-8 passes
// through, and anything else goes through charset detection with a
// Windows-1252 fallback.
func decodeUTF8(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading file head: %w", err)
	}

	switch {
	case bytes.HasPrefix(head, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(head, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(head, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	return transform.NewReader(br, legacyDecoder(head)), nil
}

func legacyDecoder(head []byte) *encoding.Decoder {
	result, err := chardet.NewTextDetector().DetectBest(head)
	if err == nil && result.Charset == "ISO-8859-9" {
		return charmap.ISO8859_9.NewDecoder()
	}

	return charmap.Windows1252.NewDecoder()
}
