package main

import "github.com/jcdickinson/crateskel/cmd"

func main() {
	cmd.Execute()
}
