package main

import "claudelens/internal/cli"

func main() {
	cli.Execute()
}
