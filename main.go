package main

import (
	"flag"
	"fmt"
	"os"

	"yashubustudio/claimrisk/internal/app"
)

func main() {
	configPath := flag.String("config", "", "Path to config.json (default: ./config.json)")
	flag.Parse()
	if err := app.Run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "claimrisk: %v\n", err)
		os.Exit(1)
	}
}
