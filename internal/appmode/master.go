package appmode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/UnendingLoop/MiniGrep/internal/matcher"
	"github.com/UnendingLoop/MiniGrep/internal/model"
	"github.com/UnendingLoop/MiniGrep/internal/processor"
	"github.com/UnendingLoop/MiniGrep/internal/qaggr"
	"github.com/UnendingLoop/MiniGrep/internal/reader"
	"github.com/docker/distribution/uuid"
)

const healthTimeout = 5 * time.Second

// RunMaster splits the document into chunks, sends every chunk to all slave-nodes and prints
// chunk results accepted by quorum in document order.
func RunMaster(ctx context.Context, ai *model.AppInit, out io.Writer) error {
	// прочитать документ целиком - ошибки чтения раньше любых сетевых запросов
	document, err := reader.ReadDocument(ai.SearchParam.FileName)
	if err != nil {
		return err
	}
	lines := matcher.SplitLines(document)
	if len(lines) == 0 {
		return nil
	}

	client := &http.Client{}

	// проверить пингом, что хотя бы quorum slave-nodes доступны
	if err := checkSlavesHealth(ctx, client, ai.Slaves, ai.Quorum); err != nil {
		return fmt.Errorf("failed to start grepping: %w", err)
	}

	result, err := processTasks(ctx, client, ai, lines)
	if err != nil {
		return fmt.Errorf("failed to grep: %w", err)
	}

	var found []string
	for _, v := range result {
		found = append(found, v...)
	}
	return writeLines(out, found)
}

func checkSlavesHealth(ctx context.Context, client *http.Client, slavesAddr []string, quorumN int) error {
	wg := sync.WaitGroup{}
	var goodSlaves atomic.Int64
	rCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	for _, v := range slavesAddr {
		wg.Go(func() {
			req, err := http.NewRequestWithContext(rCtx, http.MethodGet, v+"/ping", nil)
			if err != nil {
				return
			}

			resp, err := client.Do(req)
			if err != nil {
				log.Printf("slave-node %q is unavailable: %v", v, err)
				return
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				goodSlaves.Add(1)
			}
		})
	}

	wg.Wait()
	res := goodSlaves.Load()
	if res < int64(quorumN) {
		return fmt.Errorf("only %d slave-nodes are OK to continue, while quorum should be %d", res, quorumN)
	}

	return nil
}

// buildTasks режет строки документа на задания по chunkSize строк, порядок заданий = порядок строк
func buildTasks(ctx context.Context, sp model.SearchParam, lines []string, chunkSize int) []*model.MasterTask {
	tasks := make([]*model.MasterTask, 0, (len(lines)+chunkSize-1)/chunkSize)
	for start := 0; start < len(lines); start += chunkSize {
		end := min(start+chunkSize, len(lines))
		tCTX, cancel := context.WithCancel(ctx)
		tasks = append(tasks, &model.MasterTask{
			Task: model.SlaveTask{
				TaskID: uuid.Generate().String(),
				SP:     sp,
				Input:  lines[start:end],
			},
			CTX:       tCTX,
			CancelCTX: cancel,
		})
	}
	return tasks
}

func processTasks(ctx context.Context, client *http.Client, ai *model.AppInit, lines []string) ([][]string, error) {
	collectCtx, cancel := context.WithTimeout(ctx, ai.Timeout)
	defer cancel()

	tasks := buildTasks(collectCtx, ai.SearchParam, lines, ai.ChunkSize)
	log.Printf("Sending %d tasks to %d slave-nodes, quorum %d", len(tasks), len(ai.Slaves), ai.Quorum)

	// сразу маршалим все задания на отправку
	bodies := make([][]byte, len(tasks))
	for i, task := range tasks {
		raw, err := json.Marshal(task.Task)
		if err != nil {
			return nil, fmt.Errorf("failed to MARSHAL task: %w", err)
		}
		bodies[i] = raw
	}

	resCollect := make(chan model.SlaveResult)
	wg := sync.WaitGroup{}
	for i, task := range tasks {
		for _, nodeAddr := range ai.Slaves {
			wg.Go(func() {
				sendTaskToNode(task.CTX, client, nodeAddr, bodies[i], resCollect)
			})
		}
	}
	// канал закрывается, когда все отправители закончили - сборщик не ждет зря
	go func() {
		wg.Wait()
		close(resCollect)
	}()

	return qaggr.CollectAggregateResults(collectCtx, resCollect, tasks, ai.Quorum)
}

func sendTaskToNode(ctx context.Context, client *http.Client, na string, body []byte, ch chan<- model.SlaveResult) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, na+"/task", bytes.NewReader(body))
	if err != nil {
		log.Printf("failed to create request to slave-node %q: %v", na, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("failed to SEND task to slave-node %q: %v", na, err)
		}
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("slave-node %q rejected task: %s", na, resp.Status)
		return
	}

	var result model.SlaveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("failed to UNMARSHAL result from slave-node %q: %v", na, err)
		return
	}

	// хеш пересчитываем сами: голосует содержимое, а не заявленная сумма
	if processor.Hasher(ctx, result.Output) != result.HashSumm {
		if ctx.Err() == nil {
			log.Printf("slave-node %q sent result with inconsistent hash", na)
		}
		return
	}

	select {
	case ch <- result:
	case <-ctx.Done():
	}
}
