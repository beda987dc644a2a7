package main

import "msgdict/internal/cli"

func main() {
	cli.Execute()
}
