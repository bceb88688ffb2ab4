// Package processor runs the line filter over an input task and returns the result to transport-layer
package processor

import (
	"context"

	"github.com/UnendingLoop/MiniGrep/internal/matcher"
	"github.com/UnendingLoop/MiniGrep/internal/model"
	"github.com/cespare/xxhash/v2"
)

// проверяем контекст через каждые checkEvery строк
const checkEvery = 256

type Processor struct{}

func (p Processor) ProcessInput(ctx context.Context, task *model.SlaveTask) *model.SlaveResult {
	result := model.SlaveResult{
		TaskID: task.TaskID,
		Output: getMatchingLines(ctx, task.Input, &task.SP),
	}

	// считаем общий хеш
	result.HashSumm = Hasher(ctx, result.Output)

	return &result
}

func getMatchingLines(ctx context.Context, input []string, sp *model.SearchParam) []string {
	mode := matcher.SelectMode(sp.CaseSensitive, sp.InvertMatch)
	result := []string{}

	for start := 0; start < len(input); start += checkEvery {
		select {
		case <-ctx.Done():
			return []string{}
		default:
		}
		end := min(start+checkEvery, len(input))
		result = append(result, matcher.FilterLines(sp.Query, input[start:end], mode)...)
	}

	return result
}

// Hasher summarizes output lines; every line is terminated so that line boundaries affect the sum.
func Hasher(ctx context.Context, input []string) uint64 {
	hs := xxhash.New()
	for _, s := range input {
		select {
		case <-ctx.Done():
			return 0
		default:
			_, _ = hs.WriteString(s)
			_, _ = hs.Write([]byte{'\n'})
		}
	}
	return hs.Sum64()
}
