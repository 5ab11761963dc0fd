package main

import "github.com/tansive/commitproof/internal/cli"

func main() {
	cli.Execute()
}
