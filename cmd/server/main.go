package main

import "github.com/iliyamo/table-reservation/cmd"

func main() {
	cmd.Execute()
}
