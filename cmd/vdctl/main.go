package main

import "github.com/vectordesk/core/internal/cli"

func main() {
	cli.Execute()
}
