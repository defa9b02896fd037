package main

import "github.com/julianvz/mailterm/internal/cli"

func main() {
	cli.Execute()
}
