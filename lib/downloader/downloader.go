// Package downloader fetches wordlists and other resources credscan needs.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/duke-git/lancet/v2/cryptor"
	"github.com/duke-git/lancet/v2/strutil"
	"github.com/hashicorp/go-getter"
	"github.com/unclesp1d3r/credscan/lib/display"
	"github.com/unclesp1d3r/credscan/lib/progress"
	"github.com/unclesp1d3r/credscan/scanstate"
)

const (
	defaultUmask = 0o022 // Default umask for file permissions
)

var (
	// ErrInvalidURL is returned for a URL without scheme or host.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrChecksumMismatch is returned when a downloaded file does not match its checksum.
	ErrChecksumMismatch = errors.New("downloaded file checksum does not match")
)

type options struct {
	httpClient *http.Client
	progress   bool
}

// Option configures a download.
type Option func(*options)

// WithHTTPClient fetches http and https URLs with client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithProgress toggles the download progress bar.
func WithProgress(enabled bool) Option {
	return func(o *options) { o.progress = enabled }
}

// DownloadFile downloads fileURL to filePath with optional MD5 checksum verification.
// If the file already exists and the checksum matches, the download is skipped.
// Compressed files (.gz, .bz2, .xz, .zip) are decompressed into filePath.
func DownloadFile(ctx context.Context, fileURL, filePath, checksum string, opts ...Option) error {
	o := options{progress: true}
	for _, opt := range opts {
		opt(&o)
	}

	parsedURL, err := url.Parse(fileURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		scanstate.Logger.Error("Invalid URL", "url", fileURL)

		return fmt.Errorf("%w: %q", ErrInvalidURL, fileURL)
	}

	if FileExistsAndValid(filePath, checksum) {
		scanstate.Logger.Info("Download already exists", "path", filePath)

		return nil
	}

	display.DownloadStarting(fileURL, filePath)

	if err := downloadAndVerifyFile(ctx, fileURL, filePath, checksum, o); err != nil {
		return err
	}

	if info, err := os.Stat(filePath); err == nil {
		display.DownloadComplete(filePath, info.Size())
	}

	return nil
}

// FileExistsAndValid reports whether filePath exists and, when checksum is not blank, has that MD5 sum.
// A file with a mismatched checksum is removed.
func FileExistsAndValid(filePath, checksum string) bool {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return false
	}

	if strutil.IsBlank(checksum) {
		return true
	}

	fileChecksum, err := cryptor.Md5File(filePath)
	if err != nil {
		scanstate.Logger.Error("Error calculating file checksum", "path", filePath, "error", err)

		return false
	}

	if fileChecksum == checksum {
		return true
	}

	scanstate.Logger.Warn("Checksums do not match",
		"path", filePath, "url_checksum", checksum, "file_checksum", fileChecksum)

	if err := os.Remove(filePath); err != nil {
		scanstate.Logger.Error("Error removing file with mismatched checksum", "path", filePath, "error", err)
	}

	return false
}

func downloadAndVerifyFile(ctx context.Context, fileURL, filePath, checksum string, o options) error {
	if strutil.IsNotBlank(checksum) {
		var err error

		fileURL, err = appendChecksumToURL(fileURL, checksum)
		if err != nil {
			return err
		}
	}

	clientOpts := []getter.ClientOption{
		getter.WithContext(ctx),
		getter.WithUmask(os.FileMode(defaultUmask)),
	}

	if o.progress {
		clientOpts = append(clientOpts, getter.WithProgress(progress.DefaultProgressBar))
	}

	if o.httpClient != nil {
		httpGetter := &getter.HttpGetter{Client: o.httpClient, DoNotCheckHeadFirst: true}
		clientOpts = append(clientOpts, getter.WithGetters(map[string]getter.Getter{
			"http":  httpGetter,
			"https": httpGetter,
		}))
	}

	client := &getter.Client{
		Ctx:     ctx,
		Dst:     filePath,
		Src:     fileURL,
		Pwd:     scanstate.State.DataPath,
		Mode:    getter.ClientModeFile,
		Options: clientOpts,
	}

	if err := client.Get(); err != nil {
		scanstate.Logger.Debug("Error downloading file", "error", err)

		return fmt.Errorf("download %s: %w", fileURL, err)
	}

	if strutil.IsNotBlank(checksum) && !FileExistsAndValid(filePath, checksum) {
		return ErrChecksumMismatch
	}

	return nil
}

// appendChecksumToURL appends a checksum to the URL query string.
func appendChecksumToURL(rawURL, checksum string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("checksum", "md5:"+checksum)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
