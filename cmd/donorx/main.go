package main

import "github.com/crowdfund3r/donorx/internal/cli"

func main() {
	cli.Execute()
}
