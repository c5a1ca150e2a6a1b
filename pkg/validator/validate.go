package validator

import (
	"fmt"
	"net/url"
)

func URL(value string) error {
	parsed, err := url.ParseRequestURI(value)
	if err != nil {
		return err
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("url %q is not absolute", value)
	}
	return nil
}
