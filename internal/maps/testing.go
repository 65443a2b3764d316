package maps

// SetTestURL points a client at a test server instead of the AMap API.
// This should only be used in tests.
func SetTestURL(c *Client, baseURL string) {
	if baseURL != "" {
		c.baseURL = baseURL
	}
}
