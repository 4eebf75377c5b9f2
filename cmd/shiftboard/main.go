// Command shiftboard serves the shift scheduling API.
//
// @title                       Shiftboard API
// @version                     1.0
// @description                 Staff shift booking, calendars and hour rollups.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

//go:generate swag init -g cmd/shiftboard/main.go -d ../.. -o ../../docs --parseInternal

func main() {
	Execute()
}
