package main

import "scanlog/cmd/scanlog-cli/cmd"

func main() {
	cmd.Execute()
}
