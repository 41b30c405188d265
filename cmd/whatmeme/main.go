package main

import (
	"fmt"
	"os"

	"github.com/whatmeme/whatmeme-webapp/run"
)

func main() {
	err := run.Main(os.Args[1:], run.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
