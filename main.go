package main

import "github.com/itsmostafa/regiontree/cmd"

func main() {
	cmd.Execute()
}
