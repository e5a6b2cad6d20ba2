package main

import "github.com/gitrec/gitrec-companion/cli"

func main() {
	cli.Execute()
}
