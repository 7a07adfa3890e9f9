// Package objfile reads and writes the Pep/8 object-file format: plain
// text, uppercase hex bytes separated by single spaces, sixteen bytes
// per line, terminated by a lone "zz" sentinel line. The same codec
// serves the assembler's emitted object file, the OS ROM image loaded by
// the simulator, and any other byte stream exchanged between the two
// binaries.
package objfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const bytesPerLine = 16

// sentinel terminates the object stream.
const sentinel = "zz"

// Read parses an object stream from r, returning the decoded bytes in
// order. A missing or malformed sentinel line is an error.
func Read(r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	var out []byte
	sawSentinel := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, sentinel) {
			sawSentinel = true
			break
		}
		fields := strings.Fields(line)
		for _, f := range fields {
			if len(f) != 2 {
				return nil, fmt.Errorf("objfile: malformed byte token %q", f)
			}
			v, err := strconv.ParseUint(f, 16, 8)
			if err != nil {
				return nil, fmt.Errorf("objfile: malformed byte token %q: %w", f, err)
			}
			out = append(out, byte(v))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("objfile: %w", err)
	}
	if !sawSentinel {
		return nil, fmt.Errorf("objfile: missing %q sentinel", sentinel)
	}
	return out, nil
}

// Write serializes data in the 16-bytes-per-line hex format, followed by
// the sentinel line and a trailing newline.
func Write(w io.Writer, data []byte) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < len(data); i += bytesPerLine {
		end := i + bytesPerLine
		if end > len(data) {
			end = len(data)
		}
		line := data[i:end]
		parts := make([]string, len(line))
		for j, b := range line {
			parts[j] = fmt.Sprintf("%02X", b)
		}
		if _, err := bw.WriteString(strings.Join(parts, " ")); err != nil {
			return fmt.Errorf("objfile: %w", err)
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return fmt.Errorf("objfile: %w", err)
		}
	}
	if _, err := bw.WriteString(sentinel + "\n"); err != nil {
		return fmt.Errorf("objfile: %w", err)
	}
	return bw.Flush()
}
