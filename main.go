package main

import "github.com/kamusis/coursematch/cmd"

func main() {
	cmd.Execute()
}
