package main

import "github.com/Norgate-AV/ace/cmd"

func main() {
	cmd.Execute()
}
