package shelterapi

import (
	"net/http"
	"time"
)

// waitForLimiter blocks until the client-side limiter admits req or the
// request context ends. Without a limiter it returns immediately.
func (c *Client) waitForLimiter(req *http.Request, endpoint string) error {
	if c.limiter == nil {
		return nil
	}

	start := time.Now()
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}
	c.metrics.RecordRateLimitWait(endpoint, time.Since(start))
	return nil
}
