// Package source reads pasted contract text from files, stdin or PDFs.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxInputSize caps how much text or PDF data is read
const MaxInputSize = 10 * 1024 * 1024

// ReadText returns the text at path; an empty path or "-" reads stdin
func ReadText(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(io.LimitReader(stdin, MaxInputSize))
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := readFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadPDF extracts the text layer of the benefit statement PDF at path
func ReadPDF(path string) (string, error) {
	data, err := readFile(path)
	if err != nil {
		return "", err
	}
	text, err := ExtractPDFText(data)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return text, nil
}

// ExtractPDFText returns the PDF's text one row per line. Fragments within a
// row are joined by a single space.
func ExtractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}

		rows, err := p.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("page %d: %w", pageIndex, err)
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				if s := strings.TrimSpace(word.S); s != "" {
					words = append(words, s)
				}
			}
			if len(words) > 0 {
				sb.WriteString(strings.Join(words, " "))
				sb.WriteString("\n")
			}
		}
	}
	return sb.String(), nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if info.Size() > MaxInputSize {
		return nil, fmt.Errorf("file %s is larger than %d bytes", path, MaxInputSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}
