package main

import "github.com/persona-rag/go-persona/cli"

func main() {
	cli.Execute()
}
