package main

import (
	"os"

	"github.com/easysystem/assistant/cmd"
	"github.com/easysystem/assistant/common/log"
)

func main() {
	defer log.Sync()

	if err := cmd.Run(); err != nil {
		log.Errorf("Error: %v", err)
		os.Exit(1)
	}
}
