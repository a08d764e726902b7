package loader

import (
	"context"

	"github.com/specialistvlad/prefillgrid/internal/ctxlog"
	"github.com/viant/afs"
)

// URL reads a blueprint from any location the afs file system service
// understands: local paths, file://, mem:// and registered storage schemes.
type URL struct {
	url string
	fs  afs.Service
}

// NewURL creates a loader for url.
func NewURL(url string) *URL {
	return &URL{url: url, fs: afs.New()}
}

// Location returns the document URL.
func (u *URL) Location() string {
	return u.url
}

// Load downloads and decodes the document.
func (u *URL) Load(ctx context.Context) (*Document, error) {
	ctxlog.FromContext(ctx).Debug("Reading blueprint.", "url", u.url)

	data, err := u.fs.DownloadWithURL(ctx, u.url)
	if err != nil {
		return nil, err
	}
	return decode(data)
}
