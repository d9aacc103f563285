package main

import "go-image-similarity/internal/cli"

func main() {
	cli.Execute()
}
