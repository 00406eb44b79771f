package main

import "limitless-sync/cmd"

func main() {
	cmd.Execute()
}
