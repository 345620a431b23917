package main

import "github.com/Norgate-AV/dpkhook/cmd"

func main() {
	cmd.Execute()
}
