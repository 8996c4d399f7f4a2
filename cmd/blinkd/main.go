// Command blinkd blinks an LED at a rate selected by a push button.
package main

import "github.com/sweeney/blinkd/cmd/blinkd/cmd"

func main() {
	cmd.Execute()
}
