// Package reader loads the whole target file into memory as a single string
package reader

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/UnendingLoop/MiniGrep/internal/model"
)

// ReadDocument returns the full content of fileName. All failures are wrapped into model.ErrIO.
func ReadDocument(fileName string) (string, error) {
	// проверяем открывается ли файл
	info, err := os.Stat(fileName)
	if err != nil {
		return "", fmt.Errorf("%w: error opening file %q: %w", model.ErrIO, fileName, err)
	}
	// проверяем не папка ли это
	if info.IsDir() {
		return "", fmt.Errorf("%w: specified source filename %q is a directory", model.ErrIO, fileName)
	}

	file, err := os.Open(fileName)
	if err != nil {
		return "", fmt.Errorf("%w: couldn't open file %q: %w", model.ErrIO, fileName, err)
	}
	defer file.Close()

	return readAll(file, fileName)
}

func readAll(r io.Reader, fileName string) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: couldn't read file %q: %w", model.ErrIO, fileName, err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: file %q is not valid UTF-8 text", model.ErrIO, fileName)
	}
	return string(raw), nil
}
