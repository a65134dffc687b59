package artifacts

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Sink stores a downloaded report artifact and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
}

// Open picks a sink for target: s3://bucket/prefix uploads to S3, anything
// else (a directory or file:// URL) writes to the local filesystem.
func Open(ctx context.Context, target string) (Sink, error) {
	if target == "" {
		return nil, fmt.Errorf("artifact target is empty")
	}

	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// bare paths, including windows drive letters
		return NewFileSink(target), nil
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return NewFileSink(u.Path), nil
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("s3 target %q has no bucket", target)
		}
		return NewS3Sink(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
	default:
		return nil, fmt.Errorf("unsupported artifact target scheme %q", u.Scheme)
	}
}
