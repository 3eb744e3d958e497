// Package tabio reads and writes the flat tab-delimited tables the
// pipeline persists between stages: one header row, empty fields for
// missing values, no quoting.
package tabio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// TabReader reads tab-delimited input with an optional header row.
type TabReader struct {
	reader     *bufio.Reader
	headers    []string
	hasHeader  bool
	headerRead bool
}

// NewTabReader creates a reader over r. If hasHeader is true the first
// non-empty line is consumed as the header row.
func NewTabReader(r io.Reader, hasHeader bool) *TabReader {
	return &TabReader{
		reader:    bufio.NewReader(r),
		hasHeader: hasHeader,
	}
}

// Headers returns the header row, or nil for headerless input.
func (t *TabReader) Headers() ([]string, error) {
	if t.headerRead {
		return t.headers, nil
	}
	t.headerRead = true

	if !t.hasHeader {
		return nil, nil
	}

	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	t.headers = strings.Split(line, "\t")
	return t.headers, nil
}

// Read returns the next data row. Returns io.EOF when exhausted.
func (t *TabReader) Read() ([]string, error) {
	if !t.headerRead {
		if _, err := t.Headers(); err != nil {
			return nil, err
		}
	}

	line, err := t.readLine()
	if err != nil {
		return nil, err
	}
	return strings.Split(line, "\t"), nil
}

// ReadAll reads every remaining data row.
func (t *TabReader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := t.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Column returns the index of the named header column.
func (t *TabReader) Column(name string) (int, error) {
	for i, h := range t.headers {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in headers", name)
}

// readLine reads a line, skipping empty lines. Emptiness is judged
// after trimming the line ending, so a file ending in a bare "\r"
// yields no spurious row.
func (t *TabReader) readLine() (string, error) {
	for {
		line, err := t.reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")

		if err != nil {
			if line == "" {
				return "", err
			}
			return line, nil
		}
		if line == "" {
			continue
		}
		return line, nil
	}
}

// TabWriter writes tab-delimited output.
type TabWriter struct {
	writer *bufio.Writer
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{writer: bufio.NewWriter(w)}
}

// WriteHeaders writes the header row.
func (t *TabWriter) WriteHeaders(headers []string) error {
	return t.WriteRow(headers...)
}

// WriteRow writes a single row. Fields are written verbatim, with no
// quoting; a missing value is an empty field.
func (t *TabWriter) WriteRow(fields ...string) error {
	_, err := t.writer.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Flush flushes buffered output to the underlying writer.
func (t *TabWriter) Flush() error {
	return t.writer.Flush()
}

// FormatFloat renders a float for table output with enough precision
// to round-trip through ParseFloat.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// OpenInput opens the input file, or returns stdin for "" or "-".
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// OpenOutput opens the output file, creating parent directories as
// needed, or returns stdout for "" or "-".
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
