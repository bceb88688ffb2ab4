// Package appmode provides methods to run the app in 'local', 'master' and 'slave' mode
package appmode

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/UnendingLoop/MiniGrep/internal/matcher"
	"github.com/UnendingLoop/MiniGrep/internal/model"
	"github.com/UnendingLoop/MiniGrep/internal/reader"
)

// Following the grep tool convention.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfigError = 2
)

// ExitCode maps an error returned by parser or a run mode to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, model.ErrConfiguration):
		return ExitConfigError
	default:
		return ExitFailure
	}
}

// RunLocal reads the whole file, filters it and prints the result to out.
func RunLocal(ai *model.AppInit, out io.Writer) error {
	sp := ai.SearchParam

	document, err := reader.ReadDocument(sp.FileName)
	if err != nil {
		return err
	}

	mode := matcher.SelectMode(sp.CaseSensitive, sp.InvertMatch)
	return writeLines(out, matcher.Filter(sp.Query, document, mode))
}

// печатаем результат целиком: либо все строки, либо ошибка
func writeLines(out io.Writer, lines []string) error {
	w := bufio.NewWriter(out)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return fmt.Errorf("%w: failed to write result: %w", model.ErrIO, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("%w: failed to write result: %w", model.ErrIO, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: failed to write result: %w", model.ErrIO, err)
	}
	return nil
}
