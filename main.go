package main

import (
	"context"
	"os"

	"github.com/ardnew/vxs/cli"
	"github.com/ardnew/vxs/log"
)

func main() {
	if err := cli.Run(context.Background(), os.Exit, os.Args[1:]...); err != nil {
		log.Error("run failed", log.Err(err))
		os.Exit(1)
	}
}
