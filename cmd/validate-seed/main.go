package main

import (
	"fmt"
	"os"

	"github.com/robertpustota/telegram-ai-monitor/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: validate-seed <seed.yaml> [...]")
		os.Exit(0)
	}

	failed := false
	for _, path := range os.Args[1:] {
		seed, err := config.LoadSeed(path)
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", path, err)
			failed = true
			continue
		}
		fmt.Printf("OK   %s (%d channels, %d topics, %d filters)\n",
			path, len(seed.Channels), len(seed.Topics), len(seed.Filters))
	}

	if failed {
		os.Exit(1)
	}
}
