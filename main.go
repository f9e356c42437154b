package main

import "github.com/theirongolddev/budgetdash/cmd"

func main() {
	cmd.Execute()
}
