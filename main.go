/*
File    : mana/main.go
*/
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/mana-lang/mana/cli"
)

func main() {
	// Optional .env configuration: MANA_CACHE_DIR, MANA_CXX, MANA_NO_COLOR
	godotenv.Load()

	if os.Getenv("MANA_NO_COLOR") != "" {
		os.Setenv("NO_COLOR", "1")
	}

	os.Exit(cli.Execute())
}
