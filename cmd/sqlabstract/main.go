package main

import (
	"context"
	"log"

	"github.com/nsqlite/sqlabstract/internal/cli"
)

func main() {
	if err := cli.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
