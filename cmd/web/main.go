package main

import "feedinneed_backend/internal/app"

func main() {
	app.Run()
}
