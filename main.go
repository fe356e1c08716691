package main

import "globescope/cmd"

func main() {
	cmd.Execute()
}
