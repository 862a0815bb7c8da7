package main

import "github.com/eti-labs/arpgen/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
