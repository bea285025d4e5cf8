package main

import "github.com/pfrederiksen/hackfind/internal/cli"

func main() {
	cli.Execute()
}
