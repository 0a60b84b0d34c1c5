package main

import "github.com/oherrala/wwff-directory/cmd/wwff/cmd"

func main() {
	cmd.Execute()
}
