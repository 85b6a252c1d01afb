// main is the entry point of the drift CLI.
package main

import (
	"errors"
	"io/fs"

	"github.com/data-drift/drift/cmd"
	"github.com/data-drift/drift/internal/contract"
	"github.com/data-drift/drift/internal/iocache"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file in the working directory may hold tokens and connection strings
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		contract.LogWarn("Failed to load .env file", err)
	}

	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("Error starting CLI", err)
	}
}
