package appmode_test

import (
	"context"
	"testing"
	"time"

	"github.com/UnendingLoop/MiniGrep/internal/appmode"
	"github.com/UnendingLoop/MiniGrep/internal/model"
	"github.com/stretchr/testify/require"
)

func TestRunSlave(t *testing.T) {
	cases := []struct {
		name    string
		addr    string
		wantErr string
	}{
		{
			name: "Positive - graceful stop on cancel",
			addr: "127.0.0.1:0",
		},
		{
			name:    "Negative - listen failure stops the node",
			addr:    "127.0.0.1:not-a-port",
			wantErr: "failed",
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stop := context.WithCancel(context.Background())
			defer stop()

			done := make(chan error, 1)
			go func() {
				done <- appmode.RunSlave(ctx, stop, &model.AppInit{Mode: model.ModeSlave, Address: tt.addr})
			}()

			if tt.wantErr == "" {
				time.Sleep(100 * time.Millisecond)
				stop()
			}

			select {
			case err := <-done:
				if tt.wantErr == "" {
					require.NoError(t, err)
				} else {
					require.ErrorContains(t, err, tt.wantErr)
				}
			case <-time.After(10 * time.Second):
				t.Fatal("RunSlave did not return")
			}
		})
	}
}
