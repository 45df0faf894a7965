// Package textcodec encodes and decodes BOM-prefixed UTF-8 record files.
package textcodec

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
)

// BOM is the UTF-8 encoding of U+FEFF.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Encode returns a reader over BOM followed by every record verbatim, and the
// total byte count.
func Encode(records []string) (io.Reader, int64) {
	readers := make([]io.Reader, 0, len(records)+1)
	readers = append(readers, bytes.NewReader(BOM))
	size := int64(len(BOM))
	for _, r := range records {
		readers = append(readers, strings.NewReader(r))
		size += int64(len(r))
	}
	return io.MultiReader(readers...), size
}

// WriteTo writes the encoded form of records to w.
func WriteTo(w io.Writer, records []string) (int64, error) {
	n, err := w.Write(BOM)
	total := int64(n)
	if err != nil {
		return total, err
	}
	for _, r := range records {
		n, err := io.WriteString(w, r)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Decode strips a leading BOM and splits data into records, each keeping its
// trailing "\n". A final unterminated tail becomes its own record.
func Decode(data []byte) ([]string, error) {
	data = bytes.TrimPrefix(data, BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("content is not valid UTF-8 (detected %s)", DetectCharset(data))
	}

	text := string(data)
	records := make([]string, 0, strings.Count(text, "\n")+1)
	for text != "" {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			records = append(records, text)
			break
		}
		records = append(records, text[:i+1])
		text = text[i+1:]
	}
	return records, nil
}

// DetectCharset guesses the character set of data, defaulting to "unknown".
func DetectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil || result.Charset == "" {
		return "unknown"
	}
	return strings.ToLower(result.Charset)
}
