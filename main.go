package main

import "github.com/theirongolddev/carlog/cmd"

func main() {
	cmd.Execute()
}
