// Package banner renders the CLI startup banner.
package banner

import "fmt"

const art = `
   _         _         __ _ _ _
  /_\  _   _| |_ ___  / _(_) | |
 //_\\| | | | __/ _ \| |_| | | |
/  _  \ |_| | || (_) |  _| | | |
\_/ \_/\__,_|\__\___/|_| |_|_|_|
`

// Banner returns the startup banner with the version line.
func Banner(version string) string {
	return fmt.Sprintf("%s        job copilot autofill %s\n\n", art, version)
}
