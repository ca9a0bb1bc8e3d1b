package main

import "github.com/agenda-app/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
