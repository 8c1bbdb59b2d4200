package main

import (
	// SQL cache backend drivers.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gonspd/gonspd/internal/cli"
)

func main() {
	cli.Execute()
}
