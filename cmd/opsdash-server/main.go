// Package main Ops Dashboard API Server
//
//	@title			Ops Dashboard API
//	@version		1.0
//	@description	Heuristic risk scoring, triage and release planning over an issue-tracker feed
//
//	@contact.name	API Support
//
//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html
//
//	@host		localhost:8080
//	@BasePath	/
package main

import (
	"log"

	_ "opsdash/docs" // This imports the docs package to initialize swagger
	"opsdash/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	log.Println("Starting Ops Dashboard server...")
	srv := server.NewServer()
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
