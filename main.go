package main

import "methodswiki/wikigraph/cmd"

func main() {
	cmd.Execute()
}
