package cli

import (
	"github.com/Fepozopo/logostrip/pkg/pipeline"
	"github.com/joho/godotenv"
)

var debugf = pipeline.Debugf

// loadEnv reads an optional .env from the working directory. Variables
// already set in the environment win.
func loadEnv() {
	if err := godotenv.Load(); err != nil {
		// .env is optional
		debugf(".env not loaded: %v", err)
	}
}
