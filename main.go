// worldclock shows the local time next to a configurable set of world clocks,
// converts free-text times across every configured zone, and annotates each
// clock with its UTC offset, day/night state and next public holiday.
//
// Usage:
//
//	worldclock init                      # Create ~/.worldclock/config.yaml
//	worldclock clocks add Tokyo          # Add a world clock by city name
//	worldclock now                       # Print every clock once
//	worldclock watch                     # Live-updating display
//	worldclock convert "3pm"             # Project 15:00 local across all clocks
package main

import "github.com/agent-platform/worldclock/cmd"

func main() {
	cmd.Execute()
}
