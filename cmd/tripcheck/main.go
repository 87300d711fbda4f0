package main

import "github.com/FACorreiaa/go-itinerary-health/internal/cli"

func main() {
	cli.Execute()
}
