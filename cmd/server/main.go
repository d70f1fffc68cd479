// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Bean-Machinie/beanmachine/internal/config"
	"github.com/Bean-Machinie/beanmachine/internal/server"
)

func main() {
	cmd := &cli.Command{
		Name:   "beanmachine",
		Usage:  "Start the Bean Machine API server",
		Flags:  config.Flags(),
		Action: server.Run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
