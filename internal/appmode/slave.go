package appmode

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/UnendingLoop/MiniGrep/internal/model"
	"github.com/UnendingLoop/MiniGrep/internal/processor"
	"github.com/UnendingLoop/MiniGrep/internal/transport"
)

const shutdownTimeout = 5 * time.Second

// RunSlave serves tasks until ctx is cancelled or the server fails.
func RunSlave(ctx context.Context, stop context.CancelFunc, ai *model.AppInit) error {
	// получить экземпляр сервера
	srv := transport.NewSlaveServer(ai.Address, processor.Processor{})

	// запуск сервера
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Slave running on %s", srv.Addr)
		err := srv.ListenAndServe()
		switch {
		case err == nil, errors.Is(err, http.ErrServerClosed):
			log.Println("Server gracefully stopping...")
			serveErr <- nil
		default:
			log.Printf("Server stopped: %v", err)
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()

	// Закрытие всех соединений сервера
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown slave-node %q correctly: %w", ai.Address, err)
	}
	log.Printf("Slave-node %q server is closed.", ai.Address)

	if err := <-serveErr; err != nil {
		return fmt.Errorf("slave-node %q failed: %w", ai.Address, err)
	}
	return nil
}
