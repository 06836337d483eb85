package main

import (
	"os"

	"github.com/greatbody/convert-encoding/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
