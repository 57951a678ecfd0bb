package main

import "github.com/Fanyuxuan0817/StudySync/cmd"

func main() {
	cmd.Execute()
}
