package main

import "os"

func main() {
	if err := Execute(); err != nil && exitCode == 0 {
		os.Exit(2)
	}
	os.Exit(exitCode)
}
