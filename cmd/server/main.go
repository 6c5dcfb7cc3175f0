package main

import "hrmconsole/internal/app/server"

func main() {
	server.Run()
}
