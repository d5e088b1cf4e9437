package main

import "github.com/dormorgenstern/h5report/cmd"

func main() {
	cmd.Execute()
}
