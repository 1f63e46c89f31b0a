package ingest

import (
	"bufio"
	"bytes"
	"io"

	"golang.org/x/exp/mmap"
)

// previewWindow bounds how many bytes a raw preview inspects. Ten lines of
// any sane CSV fit well inside it.
const previewWindow = 64 * 1024

// RawPreview returns the first n raw lines of data without CSV parsing.
// This is what the user inspects to decide how many banner rows to skip.
func RawPreview(data []byte, n int) []string {
	if len(data) > previewWindow {
		data = data[:previewWindow]
	}

	lines := make([]string, 0, n)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, previewWindow), previewWindow)
	for scanner.Scan() && len(lines) < n {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// RawPreviewFile memory-maps a file and returns its first n raw lines.
// Large exports never get read past the preview window.
func RawPreviewFile(path string, n int) ([]string, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	size := r.Len()
	if size > previewWindow {
		size = previewWindow
	}

	buf := make([]byte, size)
	if _, err := r.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return RawPreview(buf, n), nil
}

// CountLines counts raw lines in data, used to validate skip_rows requests.
func CountLines(data []byte) int {
	count := bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		count++
	}
	return count
}
