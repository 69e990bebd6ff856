package main

import (
	"github.com/joho/godotenv"

	"multirag/cmd"
)

func main() {
	// A missing .env file is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cmd.Execute()
}
