package main

import "github.com/tessro/spotconnect/internal/cli"

func main() {
	cli.Execute()
}
