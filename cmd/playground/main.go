package main

import "github.com/isaacphi/playground/internal/ui/cli"

func main() {
	cli.Execute()
}
