package main

import "github.com/gbarbieri/equisuite/internal/cli"

func main() {
	cli.Execute()
}
