/*
Copyright © 2025 chaosmap.io
*/
package main

import (
	"github.com/chaosmap-io/chaosmap/cmd"
	"github.com/chaosmap-io/chaosmap/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
