package notifier

// ShouldNotify reports whether latestID must be announced given the last
// announced id (empty when nothing was recorded yet).
func ShouldNotify(latestID, lastID string, allowRepost bool) bool {
	return allowRepost || latestID != lastID
}
