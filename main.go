package main

import "github.com/naka-gawa/github-lifecycle/cmd"

func main() {
	cmd.Execute()
}
