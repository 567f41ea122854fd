package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
