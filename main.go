package main

import (
	"os"

	"github.com/g-99215544-beep/JuaraTolakSKSA/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
