package request

import (
	"errors"
	"fmt"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const maxMediaURLs = 10

var (
	errNotStringList = errors.New("must be a list of strings")
	errNotHTTPURL    = errors.New("must be an absolute http or https URL")
)

// httpScheme rejects URLs without an http or https scheme. Empty values pass.
var httpScheme = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errNotHTTPURL
	}

	return nil
})

// mediaURLs validates every entry of a []string as an absolute http(s) URL.
var mediaURLs = validation.By(func(value interface{}) error {
	urls, ok := value.([]string)
	if !ok {
		return errNotStringList
	}
	for i, u := range urls {
		if err := validation.Validate(u, validation.Required, is.RequestURL, httpScheme); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}

	return nil
})
