package sanity_check

import (
	"fmt"

	"github.com/druvus/bio-scripts/config"
)

// Run performs a simple sanity check to ensure bio-scripts is running
// properly, printing a helpful message and the version number.
func Run(args []string) {
	fmt.Printf("Successfully running bio-scripts! (%s)\n", config.MainVersion)
}
