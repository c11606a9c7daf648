package publisher

import (
	"fmt"
	"io"
	"net/http"

	"marketing_engine/internal/domain"
)

const maxErrorBody = 1024

// classifyResponse maps a non-success HTTP response. Rate limiting and server errors are
// transient; any other status means the request itself is wrong and retrying cannot help.
func classifyResponse(platform domain.Platform, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	err := fmt.Errorf("%s api error %d: %s", platform, resp.StatusCode, body)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return domain.NewTransientError(platform, resp.StatusCode, err)
	default:
		return domain.NewFatalError(platform, resp.StatusCode, err)
	}
}

// classifyTransport maps errors from http.Client.Do: no response reached us, so the call may be retried.
func classifyTransport(platform domain.Platform, err error) error {
	return domain.NewTransientError(platform, 0, fmt.Errorf("%s request failed: %w", platform, err))
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
