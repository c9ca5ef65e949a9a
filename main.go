// main.go - Entry point for the store manager backend

package main

import (
	"context"
	"os"

	"store-manager/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
