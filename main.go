package main

import "github.com/theirongolddev/ingresos/cmd"

func main() {
	cmd.Execute()
}
