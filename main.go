package main

import "github.com/Rorical/RoriForge/cmd"

func main() {
	cmd.Execute()
}
