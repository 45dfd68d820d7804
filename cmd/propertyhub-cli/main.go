package main

import "github.com/nfrund/propertyhub/cmd/propertyhub-cli/cmd"

func main() {
	cmd.Execute()
}
