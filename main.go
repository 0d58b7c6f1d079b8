package main

import "github.com/tradecortex/tradecortex/internal/cli"

func main() {
	cli.Run()
}
