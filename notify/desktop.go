package notify

import "github.com/gen2brain/beeep"

// Desktop shows n as a system notification. Failures are returned rather
// than logged so the caller can decide whether they matter.
func Desktop(n Notification) error {
	return beeep.Notify(n.Title, n.Body, "")
}
