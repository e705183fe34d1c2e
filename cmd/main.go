// cmd/main.go
package main

import (
	"blogger-api/app"
)

// @title           Blogger API
// @version         1.0
// @description     Blog posts API with JWT authentication and single-use refresh tokens.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
