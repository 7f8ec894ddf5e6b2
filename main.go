package main

import "gopunch/cmd"

func main() {
	cmd.Execute()
}
