package main

import (
	"github.com/gwdata/bron2/cmd/bron2/cmd"
)

func main() {
	cmd.Execute()
}
