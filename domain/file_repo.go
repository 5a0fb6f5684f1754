package domain

import (
	"bufio"
	"fmt"
	"os"
)

// EnvSource is the label given to domains read from the DOMAINS_LIST variable.
const EnvSource = "env"

// ListRepository serves domains from an in-memory multi-line string.
type ListRepository struct {
	text   string
	source string
}

func NewListRepository(text, source string) *ListRepository {
	if source == "" {
		source = EnvSource
	}
	return &ListRepository{text: text, source: source}
}

func (r *ListRepository) LoadSources() ([]DomainSource, error) {
	return ParseList(r.text, r.source), nil
}

// FileRepository reads domain list files, one domain per line.
type FileRepository struct {
	sourcesPaths []string
}

func NewFileRepository(sources []string) *FileRepository {
	return &FileRepository{sourcesPaths: sources}
}

// LoadSources reads every configured file in order. Lines use the ParseList
// format; the file path is the default source label.
func (r *FileRepository) LoadSources() ([]DomainSource, error) {
	var out []DomainSource
	for _, path := range r.sourcesPaths {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open domain file %s: %w", path, err)
		}

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			if ds, ok := parseLine(scanner.Text(), path); ok {
				out = append(out, ds)
			}
		}
		if err := scanner.Err(); err != nil {
			file.Close()
			return nil, fmt.Errorf("read domain file %s: %w", path, err)
		}
		file.Close()
	}
	return out, nil
}
