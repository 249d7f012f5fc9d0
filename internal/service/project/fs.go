package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ycreport/internal/model"
)

func ensureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func writeJSONAtomic(path string, v interface{}) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func requireNonEmptyString(value string, message string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, message)
	}
	return nil
}

// ReadDocumentFile 读取专案档（JSON）
func ReadDocumentFile(path string) (model.ProjectDocument, error) {
	var doc model.ProjectDocument
	if err := readJSON(path, &doc); err != nil {
		return model.ProjectDocument{}, err
	}
	return doc, nil
}

// WriteDocumentFile 写出专案档（原子替换）
func WriteDocumentFile(path string, doc model.ProjectDocument) error {
	if doc.Version == "" {
		doc.Version = model.DocumentVersion
	}
	return writeJSONAtomic(path, doc)
}
