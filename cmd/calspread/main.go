package main

import (
	"os"

	"github.com/spreadlab/calspread/cmd/calspread/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
