package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Library is the on-disk layout of one run: an input directory of audio
// recordings, an output directory of transcript documents and, when
// polishing, a notes directory for the polished versions.
type Library struct {
	inputDir   string
	outputDir  string
	notesDir   string
	extensions []string
}

// NewLibrary creates a library over the given directories. extensions is an
// optional allow-list of audio file suffixes (compared lower-case, dot
// included); when empty, any file passing the prefix test is treated as
// audio.
func NewLibrary(inputDir, outputDir, notesDir string, extensions []string) *Library {
	lowered := make([]string, len(extensions))
	for i, ext := range extensions {
		lowered[i] = strings.ToLower(ext)
	}
	return &Library{
		inputDir:   inputDir,
		outputDir:  outputDir,
		notesDir:   notesDir,
		extensions: lowered,
	}
}

// EnsureDirs verifies the input directory is readable and creates the
// output directories. Any failure here is fatal to the run.
func (l *Library) EnsureDirs(withNotes bool) error {
	info, err := os.Stat(l.inputDir)
	if err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input directory %s is not a directory", l.inputDir)
	}

	if err := os.MkdirAll(l.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if withNotes {
		if err := os.MkdirAll(l.notesDir, 0755); err != nil {
			return fmt.Errorf("creating notes directory: %w", err)
		}
	}

	return nil
}

// ListSources returns the base names of input directory entries whose name
// starts with prefix, in directory order. Subdirectories are not entered.
func (l *Library) ListSources(prefix string) ([]string, error) {
	entries, err := os.ReadDir(l.inputDir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if !l.allowedExtension(name) {
			continue
		}

		names = append(names, name)
	}

	return names, nil
}

func (l *Library) allowedExtension(name string) bool {
	if len(l.extensions) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range l.extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ReadSource reads the raw bytes of one input file.
func (l *Library) ReadSource(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.inputDir, name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// WriteTranscript writes content as <stem>.md in the output directory,
// overwriting any previous document for the same stem.
func (l *Library) WriteTranscript(name string, content string) error {
	path := filepath.Join(l.outputDir, stem(name)+".md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ListTranscripts returns the markdown documents in the output directory.
func (l *Library) ListTranscripts() ([]string, error) {
	entries, err := os.ReadDir(l.outputDir)
	if err != nil {
		return nil, fmt.Errorf("reading output directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

// ReadTranscript reads one transcript document from the output directory.
func (l *Library) ReadTranscript(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(l.outputDir, name))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}

// WriteNote writes a polished note into the notes directory.
func (l *Library) WriteNote(name string, content string) error {
	path := filepath.Join(l.notesDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
