package main

import (
	"os"

	"portfolio-chat/cmd"
)

// @title        Portfolio Chat API
// @version      1.0
// @description  Persona chat, speech-to-text and text-to-speech for a personal portfolio site.
// @BasePath     /
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
