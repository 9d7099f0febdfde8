package main

import "github.com/andaru/escl/internal/cli"

func main() {
	cli.Execute()
}
