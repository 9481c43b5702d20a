package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/nmalhotra/guidepress/cmd"
)

func main() {
	cmd.Execute()
}
