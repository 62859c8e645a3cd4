package snapshot

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/teranos/tagweb/errors"
)

// Getter performs HTTP GET requests. *httpclient.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, rawURL string) (*http.Response, error)
}

// IsRemote reports whether source names an http(s) URL rather than a file
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch downloads and parses a snapshot. The format comes from the URL path
// extension, falling back to the response Content-Type. Bodies over
// maxBytes are rejected.
func Fetch(ctx context.Context, client Getter, rawURL string, maxBytes int64) (*File, error) {
	resp, err := client.Get(ctx, rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch snapshot %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("failed to fetch snapshot %s: %s", rawURL, resp.Status)
	}

	format, err := remoteFormat(rawURL, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read snapshot %s", rawURL)
	}
	if int64(len(data)) > maxBytes {
		return nil, errors.WithHint(
			errors.Newf("snapshot %s exceeds %d bytes", rawURL, maxBytes),
			"raise fetch.max_bytes to accept larger snapshots")
	}

	f, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load snapshot %s", rawURL)
	}
	return f, nil
}

func remoteFormat(rawURL, contentType string) (string, error) {
	if u, err := url.Parse(rawURL); err == nil && path.Ext(u.Path) != "" {
		if format, err := FormatFromPath(u.Path); err == nil {
			return format, nil
		}
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "application/json":
		return FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return FormatYAML, nil
	case "application/toml", "text/toml":
		return FormatTOML, nil
	}
	return "", errors.WithHint(
		errors.NewUnsupportedFormatError(contentType, FormatJSON, FormatYAML, FormatTOML),
		"end the URL path in .json, .yaml or .toml, or serve a matching Content-Type")
}
