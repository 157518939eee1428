package main

import "github.com/inovacc/forkr/cmd"

func main() {
	cmd.Execute()
}
