package main

import (
	"context"
	"os"

	"github.com/agbru/numfront/internal/app"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	exitCode := app.New(os.Stdout, os.Stderr).Run(context.Background(), os.Args[1:])
	os.Exit(exitCode)
}
