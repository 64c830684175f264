package main

import "github.com/viant/iamgen/cmd/iamgen/commands"

func main() {
	commands.Execute()
}
