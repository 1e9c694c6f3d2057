package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/questboard/questboard-api/cmd/app"
)

// @title        Questboard API
// @version      1.0
// @description  Achievement claims reviewed by judges, a points ledger with
// @description  leaderboards, a community feed and team scavenger hunts.
// @BasePath     /api/v1
//
// @contact.name   Questboard maintainers
//
// @tag.name         submissions
// @tag.description  Claims against achievements and the judge decisions on them
// @tag.name         feed
// @tag.description  Community posts, comments and decision announcements
// @tag.name         scavenger
// @tag.description  Events, tasks, teams and team submissions
//
// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description HS256 JWT from the identity provider, as "Bearer <token>". The reviewer claim unlocks judge routes.
//
// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
