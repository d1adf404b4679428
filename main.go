package main

import "github.com/KaramelBytes/actigraph-cli/cmd"

func main() {
	cmd.Execute()
}
