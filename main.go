package main

import "driver-manager/cmd"

func main() {
	cmd.Execute()
}
