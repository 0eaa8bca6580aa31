// The main package for the llmstxt executable.
package main

import (
	"github.com/JakeFAU/llmstxt-crawler/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
