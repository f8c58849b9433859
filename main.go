package main

import (
	"github.com/Rorical/DocPilot/cmd"
)

func main() {
	cmd.Execute()
}
