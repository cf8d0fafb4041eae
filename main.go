package main

import "cayo/cli"

func main() {
	cli.Execute()
}
