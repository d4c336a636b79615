package main

import "careerlink/cmd"

func main() {
	cmd.Execute()
}
