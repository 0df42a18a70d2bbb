package main

import (
	"fmt"
	"os"
)

func main() {
	if err := makeRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fooddb:", err)
		os.Exit(1)
	}
}
