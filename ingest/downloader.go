package ingest

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArchiveKind selects which daily vendor archive to fetch.
type ArchiveKind string

const (
	ArchiveStocks ArchiveKind = "stock"
	ArchiveIndex  ArchiveKind = "index"
)

// Downloader fetches and extracts the vendor's daily zip archives.
type Downloader struct {
	baseURL string
	client  *http.Client
}

// NewDownloader creates a downloader for the given archive base URL.
func NewDownloader(baseURL string) *Downloader {
	return &Downloader{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

// ArchiveURL builds the archive URL for a report date. The vendor keys
// the directory by YYYYMMDD and the file name by DDMMYYYY.
func (d *Downloader) ArchiveURL(kind ArchiveKind, reportDate time.Time) string {
	ymd := reportDate.Format("20060102")
	dmy := reportDate.Format("02012006")
	switch kind {
	case ArchiveIndex:
		return fmt.Sprintf("%s/%s/CafeF.Index.Upto%s.zip", d.baseURL, ymd, dmy)
	default:
		return fmt.Sprintf("%s/%s/CafeF.SolieuGD.Upto%s.zip", d.baseURL, ymd, dmy)
	}
}

// FetchArchive downloads the archive into destDir, extracts it, and
// returns the paths of the contained CSV files. The zip itself is removed
// after extraction; destDir cleanup is the caller's job.
func (d *Downloader) FetchArchive(ctx context.Context, kind ArchiveKind, reportDate time.Time, destDir string) ([]string, error) {
	url := d.ArchiveURL(kind, reportDate)
	zipPath := filepath.Join(destDir, string(kind)+"_data.zip")

	if err := d.download(ctx, url, zipPath); err != nil {
		return nil, err
	}
	defer os.Remove(zipPath)

	return extractCSVs(zipPath, destDir)
}

func (d *Downloader) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("save %s: %w", dest, err)
	}
	return nil
}

// extractCSVs unpacks every .csv entry of the archive into destDir.
func extractCSVs(zipPath, destDir string) ([]string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", zipPath, err)
	}
	defer reader.Close()

	var paths []string
	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(file.Name), ".csv") {
			continue
		}

		// Flatten entry paths; the archives carry no meaningful directory
		// structure and this blocks zip-slip names.
		outPath := filepath.Join(destDir, filepath.Base(file.Name))
		if err := extractFile(file, outPath); err != nil {
			return nil, err
		}
		paths = append(paths, outPath)
	}
	return paths, nil
}

func extractFile(file *zip.File, outPath string) error {
	in, err := file.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", file.Name, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("extract %s: %w", file.Name, err)
	}
	return nil
}
