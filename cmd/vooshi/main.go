package main

import "github.com/averycrespi/vooshi/internal/cli"

func main() {
	cli.Execute()
}
