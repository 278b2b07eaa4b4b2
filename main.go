package main

import (
	"os"

	"github.com/spigell/admissions-eligibility/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
