// Package transport provides a new server-entity(by ginext) for slave-mode operability with handlers to serve endpoints
package transport

import (
	"context"
	"log"
	"net/http"

	"github.com/UnendingLoop/MiniGrep/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/wb-go/wbf/ginext"
)

type TaskProcessor interface {
	ProcessInput(ctx context.Context, task *model.SlaveTask) *model.SlaveResult
}

type handler struct {
	proc TaskProcessor
}

func NewSlaveServer(addr string, proc TaskProcessor) *http.Server {
	h := handler{proc: proc}

	engine := ginext.New("release")
	engine.GET("/ping", h.HealthCheck)
	engine.POST("/task", h.ReceiveTask)

	return &http.Server{
		Addr:    addr,
		Handler: engine,
	}
}

func (h handler) HealthCheck(ctx *ginext.Context) {
	ctx.Status(http.StatusOK)
}

func (h handler) ReceiveTask(ctx *ginext.Context) {
	var task model.SlaveTask

	if err := ctx.ShouldBindJSON(&task); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse task from body: " + err.Error()})
		return
	}

	log.Printf("Received task %q: %d lines", task.TaskID, len(task.Input))

	res := h.proc.ProcessInput(ctx.Request.Context(), &task)
	log.Printf("Task %q done: %d lines found", task.TaskID, len(res.Output))

	ctx.JSON(http.StatusOK, res)
}
