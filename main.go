package main

import (
	"github.com/alecthomas/kong"

	"droscher.com/OhioBrewPath/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("Ohio Brew Path"), kong.Description("OhioBrewPath maintains the brewery directory data set."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}
