package main

import (
	"os"

	"github.com/content-api/content-api/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
