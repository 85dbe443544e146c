package main

import "smartstitch/cmd"

func main() {
	cmd.Execute()
}
