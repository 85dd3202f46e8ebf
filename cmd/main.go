package main

import (
	"os"

	"github.com/nestquery/nestquery/cmd/nestquery"
)

func main() {
	if err := nestquery.Execute(); err != nil {
		os.Exit(1)
	}
}
