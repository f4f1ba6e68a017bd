package main

import "github.com/IgorBuilds/3mf-Looper/cmd"

func main() {
	cmd.Execute()
}
