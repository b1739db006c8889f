package main

import (
	"os"

	"github.com/abhisek/eduspark/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
