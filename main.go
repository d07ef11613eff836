package main

import "github.com/zapleads/zapleads/cmd"

func main() {
	cmd.Execute()
}
