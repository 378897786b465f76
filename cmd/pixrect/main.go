package main

import "github.com/maax3v3/pixrect/internal/cli"

func main() {
	cli.Execute()
}
