package main

import "github.com/pfrederiksen/fightcal/internal/cli"

func main() {
	cli.Execute()
}
