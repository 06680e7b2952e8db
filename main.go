package main

import "github.com/pairup/matchmaker/cmd"

func main() {
	cmd.Execute()
}
