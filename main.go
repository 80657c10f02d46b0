package main

import (
	"os"

	"github.com/Deepayan-S/FoodScanner/cli"
)

func main() {
	os.Exit(cli.Execute(NewLogger))
}
