package main

import "chatline_backend/internal/app"

func main() {
	app.Run()
}
