package main

import "item-mirror/cmd"

func main() {
	cmd.Execute()
}
