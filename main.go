package main

import "github.com/numflux/mhdtube/cmd"

func main() {
	cmd.Execute()
}
