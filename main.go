package main

import (
	"github.com/joho/godotenv"
	"github.com/reaper-esi/esi2ddl/cmd"
)

func main() {
	// Load .env file if it exists (silently ignore errors)
	_ = godotenv.Load()

	cmd.Execute()
}
