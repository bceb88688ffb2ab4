package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnendingLoop/MiniGrep/internal/appmode"
	"github.com/UnendingLoop/MiniGrep/internal/model"
	"github.com/UnendingLoop/MiniGrep/internal/parser"
)

func main() {
	os.Exit(run())
}

func run() int {
	log.SetFlags(0)

	// окружение читается только здесь, один раз
	appParam, err := parser.InitAppMode(os.Args[1:], os.LookupEnv)
	if err != nil {
		log.Printf("Failed to launch minigrep: %v", err)
		return appmode.ExitCode(err)
	}

	// готовим слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// запуск приложения в указанном режиме
	switch appParam.Mode {
	case model.ModeMaster:
		err = appmode.RunMaster(ctx, appParam, os.Stdout)
	case model.ModeSlave:
		err = appmode.RunSlave(ctx, stop, appParam)
	default:
		err = appmode.RunLocal(appParam, os.Stdout)
	}

	if err != nil {
		log.Printf("minigrep: %v", err)
	}
	return appmode.ExitCode(err)
}
