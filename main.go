package main

import (
	"os"
	"runtime/debug"

	"github.com/heirloom-labs/heirloom/cmd"
	"github.com/heirloom-labs/heirloom/logx"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			_ = logx.Errorf("CLI CRASHED: %v\n%s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	cmd.Execute()
}
