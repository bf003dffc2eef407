package main

import "github.com/karlding/canbustiming/cmd"

func main() {
	cmd.Execute()
}
