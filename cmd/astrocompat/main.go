package main

import (
	"astrocompat/cmd/astrocompat/commands"
	"astrocompat/lib/util/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
