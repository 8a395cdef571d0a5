package personfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jumppad-labs/personfile/types"
)

// StateStore persists parsed configuration so that it can be reloaded
// without access to the original files
type StateStore interface {
	// Save persists the given config
	Save(config *Config) error

	// Load returns the previously saved config, a nil config is returned
	// when no state has been saved
	Load() (*Config, error)

	// Exists returns true when saved state exists
	Exists() bool

	// Clear removes any saved state
	Clear() error
}

// FileStateStore implements StateStore using file based persistence, state
// is stored as JSON in a file within the state directory
type FileStateStore struct {
	stateDir  string
	stateFile string
	registry  types.RegisteredTypes
	mu        sync.Mutex
}

// NewFileStateStore creates a new file based state store, when stateDir is
// empty it defaults to ".personfile/state" in the current directory. The
// registry is used to recreate concrete resource types when state is loaded.
func NewFileStateStore(stateDir string, registry types.RegisteredTypes) *FileStateStore {
	if stateDir == "" {
		stateDir = filepath.Join(".", ".personfile", "state")
	}

	return &FileStateStore{
		stateDir:  stateDir,
		stateFile: filepath.Join(stateDir, "state.json"),
		registry:  registry,
	}
}

// Load retrieves the previously saved configuration state from the file
func (f *FileStateStore) Load() (*Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	return f.unmarshalConfig(data)
}

// Save persists the current configuration state to the file
func (f *FileStateStore) Save(config *Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.marshalConfig(config)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(f.stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	// write to a temporary file first so saves are atomic
	tmpFile := f.stateFile + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}

	if err := os.Rename(tmpFile, f.stateFile); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to save state file: %w", err)
	}

	return nil
}

// Exists returns true if a saved state file exists
func (f *FileStateStore) Exists() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, err := os.Stat(f.stateFile)
	return err == nil
}

// Clear removes the saved state file
func (f *FileStateStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.stateFile)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear state: %w", err)
	}

	return nil
}

func (f *FileStateStore) marshalConfig(config *Config) ([]byte, error) {
	buf := bytes.NewBuffer([]byte{})
	enc := json.NewEncoder(buf)
	enc.SetIndent("", " ")

	err := enc.Encode(config)
	if err != nil {
		return nil, fmt.Errorf("unable to encode config: %w", err)
	}

	return buf.Bytes(), nil
}

// unmarshalConfig deserializes JSON into a Config, the meta type of each
// serialized resource determines the concrete type created
func (f *FileStateStore) unmarshalConfig(data []byte) (*Config, error) {
	conf := NewConfig()

	var objMap map[string]*json.RawMessage
	err := json.Unmarshal(data, &objMap)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	// no resources have been saved
	if objMap["resources"] == nil {
		return conf, nil
	}

	var rawResources []*json.RawMessage
	err = json.Unmarshal(*objMap["resources"], &rawResources)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal resources: %w", err)
	}

	for _, m := range rawResources {
		mm := map[string]any{}
		err := json.Unmarshal(*m, &mm)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal resource: %w", err)
		}

		meta, ok := mm["meta"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("resource in state has no meta block")
		}

		r, err := f.registry.CreateResource(meta["type"].(string), meta["name"].(string))
		if err != nil {
			return nil, fmt.Errorf("failed to create resource %s.%s: %w", meta["type"], meta["name"], err)
		}

		// unmarshal the resource data into the concrete type
		resData, _ := json.Marshal(mm)
		if err := json.Unmarshal(resData, r); err != nil {
			return nil, fmt.Errorf("failed to populate resource %s.%s: %w", meta["type"], meta["name"], err)
		}

		if err := conf.addResource(r, nil, nil); err != nil {
			return nil, fmt.Errorf("failed to add resource %s.%s to config: %w", meta["type"], meta["name"], err)
		}
	}

	return conf, nil
}
