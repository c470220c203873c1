package main

import "photoshare-backend/cmd"

func main() {
	cmd.Run()
}
