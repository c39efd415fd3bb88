package main

import "github.com/theirongolddev/nestegg/cmd"

func main() {
	cmd.Execute()
}
