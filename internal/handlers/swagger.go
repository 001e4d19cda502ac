package handlers

// @title Bonus Requests API
// @version 1.0
// @description Bonus types, workers with roles and bonus requests with their history

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /

// @tag.name bonuses
// @tag.description Bonus type operations

// @tag.name workers
// @tag.description Worker and role operations

// @tag.name requests
// @tag.description Bonus request and history operations
