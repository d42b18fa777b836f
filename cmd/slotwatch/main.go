package main

import "github.com/pfrederiksen/slotwatch/internal/cli"

func main() {
	cli.Execute()
}
