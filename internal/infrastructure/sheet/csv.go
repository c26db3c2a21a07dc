package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"safetrack/internal/errs"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads comma or semicolon separated input. The delimiter is taken
// from whichever appears more often on the header line.
func ReadCSV(r io.Reader, encoding string) (Table, error) {
	decoded, err := decode(r, encoding)
	if err != nil {
		return Table{}, err
	}

	br := bufio.NewReader(SkipBOM(decoded))
	firstLine, err := br.Peek(br.Size())
	if err != nil && err != io.EOF {
		return Table{}, errs.Wrap(err, "peek csv header")
	}

	reader := csv.NewReader(br)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.Comma = sniffDelimiter(firstLine)

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("%w: parse csv: %v", ErrMalformed, err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	return newTable(records, lines)
}

// SkipBOM drops a leading UTF-8 byte order mark.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	peeked, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(peeked, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "iso-8859-1", "latin1", "latin-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported csv encoding %q", encoding)
	}
}

func sniffDelimiter(head []byte) rune {
	if idx := bytes.IndexByte(head, '\n'); idx >= 0 {
		head = head[:idx]
	}
	if bytes.Count(head, []byte(";")) > bytes.Count(head, []byte(",")) {
		return ';'
	}
	return ','
}
