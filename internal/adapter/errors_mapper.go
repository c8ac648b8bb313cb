package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-sync-engine/models"
	"github.com/go-resty/resty/v2"
)

// mapHTTPError turns a non-2xx response into a sync outcome.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %w: %s", ErrBadRequest, models.ServerReturnUnknownError, body)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthorized, models.SyncProtocolError{
			ErrorType:        models.InvalidCredential,
			ErrorDescription: body,
		})
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w: %s", ErrForbidden, models.SyncAuthError, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w: %s", ErrNotFound, models.SyncServerError, body)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w: %s", ErrConflict, models.ServerReturnConflict, body)
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %w", ErrThrottled, models.SyncProtocolError{
			ErrorType:        models.Throttled,
			ErrorDescription: body,
			Throttle:         retryAfter(resp.Header().Get("Retry-After"), time.Now()),
		})
	case http.StatusBadGateway:
		return fmt.Errorf("%w: %w: %s", ErrBadGateway, models.SyncServerError, body)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: %w: %s", ErrInternalServerError, models.SyncServerError, body)
	default:
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return fmt.Errorf("http %d: %w: %s", resp.StatusCode(), models.SyncServerError, body)
		}
		return fmt.Errorf("http %d: %w: %s", resp.StatusCode(), models.ServerReturnUnknownError, body)
	}
}

// mapRequestError classifies a failure that produced no response. Timeouts
// count as I/O errors, everything else as a missing connection.
func mapRequestError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w: %w", ErrUnreachable, models.NetworkIOError, err)
	}
	return fmt.Errorf("%w: %w: %w", ErrUnreachable, models.NetworkConnectionUnavailable, err)
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP
// date. Zero leaves the choice to the scheduler.
func retryAfter(header string, now time.Time) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}
