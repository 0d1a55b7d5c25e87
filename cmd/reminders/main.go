package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {

	sweeper, err := InitializeSweeper()
	if err != nil {
		log.Fatal(err)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err = sweeper.Run(ctx); err != nil {
		log.Fatal(err.Error())
	}

}
