package main

import "github.com/ssargent/ixtree/cmd/ixtree/cmd"

func main() {
	cmd.Execute()
}
