package main

import "github.com/rgoncalves/smartcut/internal/cli"

func main() {
	cli.Main()
}
