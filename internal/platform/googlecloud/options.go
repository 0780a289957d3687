package googlecloud

import (
	"errors"
	"net/http"

	"github.com/agrinathi/agrinathi-api/internal/resilience"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrNoAPIKey is returned when a client is built without credentials.
var ErrNoAPIKey = errors.New("google api key not configured")

func clientOptions(apiKey, endpoint string) ([]option.ClientOption, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	return opts, nil
}

// classify marks 4xx responses other than 408 and 429 as permanent.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		c := apiErr.Code
		if c >= 400 && c < 500 && c != http.StatusRequestTimeout && c != http.StatusTooManyRequests {
			return resilience.Permanent(err)
		}
	}
	return err
}
