package main

import (
	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/cli"
)

func main() {
	app.SetupEnvironment()
	cli.Execute()
}
