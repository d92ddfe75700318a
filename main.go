package main

import "github.com/twiced-technology-gmbh/planwright/cmd"

func main() {
	cmd.Execute()
}
