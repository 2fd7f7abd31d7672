package main

import "firedam/cmd/firedam-cli/cmd"

func main() {
	cmd.Execute()
}
