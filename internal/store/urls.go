package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// urlList is the input file format: {"values": ["https://github.com/owner/name", ...]}.
type urlList struct {
	Values []string `json:"values"`
}

// ReadURLs reads the repository URLs of an input file.
func ReadURLs(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var list urlList
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return list.Values, nil
}

// WriteURLs writes urls in the input file format.
func WriteURLs(path string, urls []string) error {
	if urls == nil {
		urls = []string{}
	}
	return writeJSON(path, urlList{Values: urls})
}
