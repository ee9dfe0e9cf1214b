package main

import "github.com/mcoot/gemtrader/internal/cli"

func main() {
	cli.Execute()
}
