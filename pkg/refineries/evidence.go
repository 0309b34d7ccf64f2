package refineries

import "regexp"

var tweetIDPattern = regexp.MustCompile(`/status/(\d+)`)

// TweetID extracts the post id from an X/Twitter status URL.
func TweetID(url string) (string, bool) {
	m := tweetIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}
