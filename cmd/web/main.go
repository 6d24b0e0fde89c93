package main

import "easybuk_backend/internal/app"

func main() {
	app.Run()
}
