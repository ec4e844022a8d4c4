package main

import (
	"os"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
