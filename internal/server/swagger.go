package server

// @title Users Function API
// @version 1.0
// @description Lists every row of the users table. Served by AWS Lambda in production and by usersctl serve locally.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @tag.name users
// @tag.description User listing

// @tag.name health
// @tag.description Database reachability
