package qaggr_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/UnendingLoop/MiniGrep/internal/model"
	"github.com/UnendingLoop/MiniGrep/internal/qaggr"
	"github.com/stretchr/testify/require"
)

func TestCollectAggregateResults(t *testing.T) {
	cases := []struct {
		name      string
		cancelled bool
		closeCh   bool
		testTasks []*model.MasterTask
		testRes   []model.SlaveResult
		testQ     int
		wantErr   string
		wantRes   [][]string
	}{
		{
			name:      "Negative - cancelled ctx",
			cancelled: true,
			testTasks: []*model.MasterTask{{Task: model.SlaveTask{TaskID: "task1"}}, {Task: model.SlaveTask{TaskID: "task2"}}},
			testQ:     1,
			wantErr:   "exceeded or cancelled without reaching quorum",
			wantRes:   nil,
		},
		{
			name:      "Positive - reached quorum",
			closeCh:   true,
			testTasks: []*model.MasterTask{{Task: model.SlaveTask{TaskID: "task1"}}, {Task: model.SlaveTask{TaskID: "task2"}}},
			testRes: []model.SlaveResult{
				{TaskID: "task1", HashSumm: 300, Output: []string{"1", "2", "3"}},
				{TaskID: "task1", HashSumm: 300, Output: []string{"1", "2", "3"}},
				{TaskID: "task2", HashSumm: 400, Output: []string{"4"}},
				{TaskID: "task2", HashSumm: 400, Output: []string{"4"}},
			},
			testQ:   2,
			wantRes: [][]string{{"1", "2", "3"}, {"4"}},
		},
		{
			name:      "Positive - order follows tasks not arrival",
			closeCh:   true,
			testTasks: []*model.MasterTask{{Task: model.SlaveTask{TaskID: "task1"}}, {Task: model.SlaveTask{TaskID: "task2"}}},
			testRes: []model.SlaveResult{
				{TaskID: "task2", HashSumm: 400, Output: []string{"4"}},
				{TaskID: "task1", HashSumm: 300, Output: []string{"1"}},
			},
			testQ:   1,
			wantRes: [][]string{{"1"}, {"4"}},
		},
		{
			name:      "Positive - minority hash outvoted",
			closeCh:   true,
			testTasks: []*model.MasterTask{{Task: model.SlaveTask{TaskID: "task1"}}},
			testRes: []model.SlaveResult{
				{TaskID: "task1", HashSumm: 1, Output: []string{"broken"}},
				{TaskID: "task1", HashSumm: 300, Output: []string{"1"}},
				{TaskID: "task1", HashSumm: 300, Output: []string{"1"}},
			},
			testQ:   2,
			wantRes: [][]string{{"1"}},
		},
		{
			name:      "Positive - unknown task ignored",
			closeCh:   true,
			testTasks: []*model.MasterTask{{Task: model.SlaveTask{TaskID: "task1"}}},
			testRes: []model.SlaveResult{
				{TaskID: "stranger", HashSumm: 1, Output: []string{"x"}},
				{TaskID: "task1", HashSumm: 300, Output: []string{}},
			},
			testQ:   1,
			wantRes: [][]string{{}},
		},
		{
			name:      "Negative - no agreement before channel closed",
			closeCh:   true,
			testTasks: []*model.MasterTask{{Task: model.SlaveTask{TaskID: "task1"}}},
			testRes: []model.SlaveResult{
				{TaskID: "task1", HashSumm: 1, Output: []string{"a"}},
				{TaskID: "task1", HashSumm: 2, Output: []string{"b"}},
			},
			testQ:   2,
			wantErr: "results channel closed",
			wantRes: nil,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if tt.cancelled {
				cancel()
			}
			defer cancel()

			cancelled := make(map[string]bool)
			for _, task := range tt.testTasks {
				id := task.Task.TaskID
				task.CancelCTX = func() { cancelled[id] = true }
			}

			testCh := make(chan model.SlaveResult)
			go func() {
				for _, v := range tt.testRes {
					testCh <- v
				}
				if tt.closeCh {
					close(testCh)
				}
			}()

			res, err := qaggr.CollectAggregateResults(ctx, testCh, tt.testTasks, tt.testQ)

			if tt.wantErr == "" {
				require.NoError(t, err)
				for _, task := range tt.testTasks {
					require.True(t, cancelled[task.Task.TaskID], "task %q context was not cancelled", task.Task.TaskID)
				}
			} else {
				require.ErrorIs(t, err, qaggr.ErrNoQuorum)
				require.ErrorContains(t, err, tt.wantErr, fmt.Sprintf("received error '%v' instead of '...%v...'", err, tt.wantErr))
			}
			require.Equal(t, tt.wantRes, res, fmt.Sprintf("received result '%v' instead of '%v'", res, tt.wantRes))
		})
	}
}
