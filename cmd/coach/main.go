// Command coach is the terminal client for the AI interview and classroom
// service.
package main

import "github.com/puneetsingh210426-hue/ai-interviewer/internal/cli"

func main() {
	cli.Execute()
}
