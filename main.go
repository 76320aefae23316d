package main

import "github.com/josephlewis42/elvi/cmd"

func main() {
	cmd.Execute()
}
