package main

import "github.com/pthm-cable/boids/cli"

func main() {
	cli.Execute()
}
