package main

import "github.com/palmlink/palmlink/internal/cli"

func main() {
	cli.Execute()
}
