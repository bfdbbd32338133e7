package main

import "github.com/vocali/vocali-backend/cmd"

func main() {
	cmd.Execute()
}
