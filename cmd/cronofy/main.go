package main

import (
	"os"
	"path/filepath"

	"github.com/dvcrn/cronofy-go/internal/credentials"
	"github.com/subosito/gotenv"
)

var version = "dev"

func main() {
	// The first .env found wins: working directory, then the config directory.
	tryPaths := []string{".env"}
	if dir := credentials.ConfigDir(); dir != "" {
		tryPaths = append(tryPaths, filepath.Join(dir, ".env"))
	}
	for _, p := range tryPaths {
		if credentials.FileExists(p) {
			if err := gotenv.Load(p); err == nil {
				break
			}
		}
	}

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
