package main

import "github.com/shouni/go-competitor-watch/cmd"

func main() {
	cmd.Execute()
}
