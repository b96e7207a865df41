package main

import "github.com/naka-gawa/merged-pr-export/cmd"

func main() {
	cmd.Execute()
}
