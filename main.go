package main

import "github.com/agentic-research/schemawalk/cmd"

func main() {
	cmd.Execute()
}
