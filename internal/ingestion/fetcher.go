package ingestion

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ovolkov/spimexpulse/config"
	"github.com/ovolkov/spimexpulse/internal/logger"
)

// bulletinFileSuffix names the per-date temp file in the download directory.
const bulletinFileSuffix = "_oil_data.xls"

// Fetcher retrieves the bulletin document for a date.
//
// ok=false means "no bulletin for that date": a non-200 status, a connect
// error or a timeout. Those are absence, never pipeline errors.
type Fetcher interface {
	Fetch(ctx context.Context, date time.Time) (path string, ok bool)
}

// BulletinFetcher downloads daily bulletins from the exchange site.
// The URL for a date is baseURL + YYYYMMDD + suffix; a successful download
// is stored as {YYYYMMDD}_oil_data.xls in the download directory until the
// run's cleanup removes it.
type BulletinFetcher struct {
	client  *http.Client
	baseURL string
	suffix  string
	dir     string
}

// NewBulletinFetcher builds a fetcher from the SPIMEX source settings.
// The configured timeout bounds each individual download.
func NewBulletinFetcher(cfg config.SpimexConfig) *BulletinFetcher {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &BulletinFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.BaseURL,
		suffix:  cfg.FileSuffix,
		dir:     cfg.DownloadDir,
	}
}

// Fetch downloads the bulletin for one date. On success it returns the temp
// file path; any transport failure or non-200 status is logged and reported
// as absence, leaving no file behind.
func (f *BulletinFetcher) Fetch(ctx context.Context, date time.Time) (string, bool) {
	key := DateKey(date)
	url := f.baseURL + key + f.suffix

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.L().Warn().Str("date", key).Err(err).Msg("build bulletin request failed")
		return "", false
	}

	resp, err := f.client.Do(req)
	if err != nil {
		logger.L().Warn().Str("date", key).Err(err).Msg("bulletin fetch failed")
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		logger.L().Debug().Str("date", key).Int("status", resp.StatusCode).Msg("no bulletin published")
		return "", false
	}

	path := filepath.Join(f.dir, key+bulletinFileSuffix)
	out, err := os.Create(path)
	if err != nil {
		logger.L().Warn().Str("date", key).Err(err).Msg("create bulletin file failed")
		return "", false
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		logger.L().Warn().Str("date", key).Err(err).Msg("write bulletin file failed")
		return "", false
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		logger.L().Warn().Str("date", key).Err(err).Msg("close bulletin file failed")
		return "", false
	}

	return path, true
}
