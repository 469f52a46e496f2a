package main

import "exusiai.dev/drawbank/cmd/app"

func main() {
	app.Run()
}
