package main

import "github.com/vanshsehgal08/Lie-Hard/cmd"

func main() {
	cmd.Execute()
}
