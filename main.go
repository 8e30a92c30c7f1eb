package main

import "github.com/inovacc/pollo/cmd"

func main() {
	cmd.Execute()
}
