package record

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// Dataset is the on-disk shape consumed by init.
type Dataset struct {
	Records []Raw `json:"records"`
}

// Load reads a dataset from an http(s) URL or a local file path. Local files
// are mmap'd rather than slurped; the mapping is released before returning.
func Load(url string) (*Dataset, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return loadHTTP(url)
	}
	return loadFile(url)
}

func loadHTTP(url string) (*Dataset, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch dataset %s: status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", url, err)
	}

	return decode(body, url)
}

func loadFile(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return nil, fmt.Errorf("dataset file is empty: %s", path)
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to mmap dataset %s: %w", path, err)
	}
	defer data.Unmap()

	return decode(data, path)
}

func decode(data []byte, source string) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", source, err)
	}
	return &ds, nil
}
