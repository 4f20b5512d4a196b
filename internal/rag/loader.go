// Package rag implements the in-process knowledge base: document loading,
// chunking, deduplication, and BM25 keyword retrieval with metadata filters.
package rag

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dealsense/diligence/internal/domain"
)

// Loader walks a knowledge directory and produces documents with metadata
type Loader struct {
	logger *log.Logger
}

// NewLoader creates a Loader
func NewLoader(logger *log.Logger) *Loader {
	return &Loader{logger: logger}
}

// frontMatter is the optional YAML header at the top of a knowledge file
type frontMatter struct {
	Title     string `yaml:"title"`
	CompanyID string `yaml:"company_id"`
	Category  string `yaml:"category"`
	DocType   string `yaml:"doc_type"`
}

// skipDirs are directory names that never contain knowledge documents
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".cache":       true,
}

var supportedExtensions = map[string]bool{
	".md":   true,
	".txt":  true,
	".json": true,
}

// LoadDir walks root and loads every supported file. Metadata comes from
// front matter when present, otherwise from the directory layout
// root/<category>/<company_id>/<file>.
func (l *Loader) LoadDir(root string) ([]domain.Document, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("knowledge dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("knowledge dir %s is not a directory", root)
	}

	var docs []domain.Document
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			l.logger.Printf("Warning: cannot access %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] || (strings.HasPrefix(d.Name(), ".") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		if !supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		doc, err := l.loadFile(root, path)
		if err != nil {
			l.logger.Printf("Warning: skipping %s: %v", path, err)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking knowledge dir: %w", err)
	}
	return docs, nil
}

func (l *Loader) loadFile(root, path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, err
	}

	content := string(data)
	doc := domain.Document{
		Path:  path,
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	if fm, body, ok := splitFrontMatter(content); ok {
		var meta frontMatter
		if err := yaml.Unmarshal([]byte(fm), &meta); err != nil {
			return domain.Document{}, fmt.Errorf("parsing front matter: %w", err)
		}
		if meta.Title != "" {
			doc.Title = meta.Title
		}
		doc.CompanyID = strings.ToUpper(meta.CompanyID)
		doc.Category = domain.DocumentCategory(strings.ToLower(meta.Category))
		doc.DocType = meta.DocType
		content = body
	}

	// Directory layout fills whatever front matter left blank.
	rel, err := filepath.Rel(root, path)
	if err == nil {
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if doc.Category == "" && len(parts) > 1 {
			doc.Category = domain.DocumentCategory(strings.ToLower(parts[0]))
		}
		if doc.CompanyID == "" && len(parts) > 2 {
			doc.CompanyID = strings.ToUpper(parts[1])
		}
	}
	if doc.Category == "" {
		doc.Category = domain.CategoryMarket
	}

	doc.Content = strings.TrimSpace(content)
	if doc.Content == "" {
		return domain.Document{}, fmt.Errorf("empty document")
	}
	return doc, nil
}

// splitFrontMatter separates a leading "---" YAML block from the body
func splitFrontMatter(content string) (meta, body string, ok bool) {
	if !strings.HasPrefix(content, "---\n") && !strings.HasPrefix(content, "---\r\n") {
		return "", content, false
	}
	rest := content[strings.Index(content, "\n")+1:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", content, false
	}
	meta = rest[:end]
	body = rest[end+len("\n---"):]
	if i := strings.Index(body, "\n"); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}
	return meta, body, true
}
