package main

import "PayStream/internal/cli"

func main() {
	cli.Execute()
}
