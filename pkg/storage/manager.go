package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Manager handles image file storage and duplicate detection
type Manager struct {
	outputDir  string
	savedFiles map[string]bool
	mu         sync.RWMutex
}

// NewManager creates a new storage manager, creating the output
// directory if it does not exist
func NewManager(outputDir string) (*Manager, error) {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manager := &Manager{
		outputDir:  outputDir,
		savedFiles: make(map[string]bool),
	}

	// Scan existing files for duplicate detection
	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// OpenManager opens an existing directory without creating it. The
// curator uses this so a mistyped path fails instead of spawning an
// empty directory.
func OpenManager(outputDir string) (*Manager, error) {
	info, err := os.Stat(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", outputDir)
	}

	manager := &Manager{
		outputDir:  outputDir,
		savedFiles: make(map[string]bool),
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// scanExistingFiles records the files already present in the output directory
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		m.savedFiles[entry.Name()] = true
	}

	return nil
}

// IsSaved checks if a file with the given name has already been saved
func (m *Manager) IsSaved(filename string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Check in-memory map first
	if m.savedFiles[filename] {
		return true
	}

	// Double-check file existence
	path := filepath.Join(m.outputDir, filename)
	if _, err := os.Stat(path); err == nil {
		// Update cache if file exists
		m.mu.RUnlock()
		m.mu.Lock()
		m.savedFiles[filename] = true
		m.mu.Unlock()
		m.mu.RLock()
		return true
	}

	return false
}

// SaveFile saves data from the given reader under filename, replacing
// any existing file of the same name
func (m *Manager) SaveFile(r io.Reader, filename string) error {
	path := filepath.Join(m.outputDir, filename)

	// Create temporary file first
	tempFile := path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	// Copy data
	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile) // Clean up temp file
		return fmt.Errorf("failed to save file data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile) // Clean up temp file
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	// Atomic rename
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile) // Clean up temp file
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	// Update saved map
	m.mu.Lock()
	m.savedFiles[filename] = true
	m.mu.Unlock()

	return nil
}

// ListFiles returns the names of the regular files in the output
// directory, sorted, skipping dotfiles
func (m *Manager) ListFiles() ([]string, error) {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	return files, nil
}

// Remove deletes a file from the output directory
func (m *Manager) Remove(filename string) error {
	if err := os.Remove(filepath.Join(m.outputDir, filename)); err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	m.mu.Lock()
	delete(m.savedFiles, filename)
	m.mu.Unlock()

	return nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetSavedCount returns the number of files known to the manager
func (m *Manager) GetSavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.savedFiles)
}
