// Package qaggr - provides method to aggregate all results received from slave-nodes and reach quorum
package qaggr

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnendingLoop/MiniGrep/internal/model"
)

var ErrNoQuorum = errors.New("deadline exceeded or cancelled without reaching quorum")

type taskTotals struct {
	task  *model.MasterTask
	votes int
	data  []string
}

// CollectAggregateResults reads slave results until every task has quorum votes for one output hash.
// Results are returned in the order of tasks; on failure nothing is returned.
func CollectAggregateResults(ctx context.Context, ch <-chan model.SlaveResult, tasks []*model.MasterTask, quorum int) ([][]string, error) {
	quorumResults := make(map[string][]string, len(tasks))

	// готовим мапу задач [TaskID]:*MasterTask чтобы по полученному результату быстро обновлять resMap
	tasksMap := make(map[string]*model.MasterTask, len(tasks))
	for i := range tasks {
		tasksMap[tasks[i].Task.TaskID] = tasks[i]
	}

	// мапа мап для подсчета каждой вариации хеш-суммы по каждому заданию
	resMap := make(map[string]map[uint64]*taskTotals)

	for len(quorumResults) < len(tasksMap) {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %d of %d tasks done", ErrNoQuorum, len(quorumResults), len(tasksMap))
		case newRes, ok := <-ch:
			if !ok {
				return nil, fmt.Errorf("%w: results channel closed, %d of %d tasks done", ErrNoQuorum, len(quorumResults), len(tasksMap))
			}

			// проверяем, существует ли задача с таким TaskID и не закрыта ли она уже
			task, taskExists := tasksMap[newRes.TaskID]
			if !taskExists {
				continue
			}
			if _, done := quorumResults[newRes.TaskID]; done {
				continue
			}

			submap, resExists := resMap[newRes.TaskID]
			if !resExists {
				submap = make(map[uint64]*taskTotals)
				resMap[newRes.TaskID] = submap
			}

			hashRecord, hashExists := submap[newRes.HashSumm]
			if !hashExists {
				hashRecord = &taskTotals{task: task, data: newRes.Output}
				submap[newRes.HashSumm] = hashRecord
			}
			hashRecord.votes++

			if hashRecord.votes >= quorum { // кворум достигнут - отменяем контекст http-запросов по этой задаче
				if hashRecord.task.CancelCTX != nil {
					hashRecord.task.CancelCTX()
				}
				quorumResults[newRes.TaskID] = hashRecord.data
				delete(resMap, newRes.TaskID)
			}
		}
	}

	// формируем результат
	resStrings := make([][]string, 0, len(tasks))
	for _, v := range tasks {
		resStrings = append(resStrings, quorumResults[v.Task.TaskID])
	}

	return resStrings, nil
}
