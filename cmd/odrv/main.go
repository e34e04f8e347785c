package main

import "github.com/blacktop/odrv/cmd/odrv/cmd"

func main() {
	cmd.Execute()
}
