package main

import "fitness-coach/internal/cli"

func main() {
	cli.Execute()
}
