package main

import "github.com/pfrederiksen/exam-calendar/internal/cli"

func main() {
	cli.Execute()
}
