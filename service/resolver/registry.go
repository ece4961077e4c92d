package resolver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// registryEntry is one account in a structured registry document. The key
// block is optional; missing fields fall back to configured defaults.
type registryEntry struct {
	Address string          `json:"address"`
	Key     json.RawMessage `json:"key"`
}

type registryKey struct {
	Index              *int   `json:"index"`
	SignatureAlgorithm string `json:"signatureAlgorithm"`
	HashAlgorithm      string `json:"hashAlgorithm"`
}

type registryFile struct {
	Accounts map[string]registryEntry `json:"accounts"`
}

// registryPaths returns the registry documents consulted for account
// metadata, in precedence order.
func (r *Resolver) registryPaths() []string {
	return []string{
		filepath.Join(r.cfg.FlowDir, "flow.json"),
		filepath.Join(r.cfg.FlowDir, "accounts", "flow-production.json"),
	}
}

// lookupRegistry finds the registry entry for the given account name, trying
// each registry document in order. The second return value is false when no
// document contains the name.
func (r *Resolver) lookupRegistry(name string) (registryEntry, registryKey, bool, error) {
	for _, path := range r.registryPaths() {
		accounts, err := r.loadRegistry(path)
		if err != nil {
			return registryEntry{}, registryKey{}, false, fmt.Errorf("could not load registry (path: %s): %w", path, err)
		}
		entry, ok := accounts[name]
		if !ok || entry.Address == "" {
			continue
		}
		var key registryKey
		if len(entry.Key) > 0 {
			// The key block is only honored when it is an object; some
			// registry formats store a bare key string here instead.
			_ = json.Unmarshal(entry.Key, &key)
		}
		return entry, key, true, nil
	}
	return registryEntry{}, registryKey{}, false, nil
}

// loadRegistry parses a registry document, going through the cache keyed by
// file path. A missing document is treated as an empty registry.
func (r *Resolver) loadRegistry(path string) (map[string]registryEntry, error) {

	cached, ok := r.cache.Get(path)
	if ok {
		return cached.(map[string]registryEntry), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read registry document: %w", err)
	}

	var doc registryFile
	err = json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("could not decode registry document: %w", err)
	}

	r.cache.Set(path, doc.Accounts, int64(len(data)))

	return doc.Accounts, nil
}

// keyFile returns the path of the plaintext key file for a named account.
// The service account key sits next to the registry documents; provisioned
// account keys live in the pkeys directory.
func (r *Resolver) keyFile(name string) string {
	if name == r.cfg.ServiceAccount {
		path := filepath.Join(r.cfg.FlowDir, name+".pkey")
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return filepath.Join(filepath.Dir(r.cfg.FlowDir), name+".pkey")
	}
	return filepath.Join(r.cfg.FlowDir, "accounts", "pkeys", name+".pkey")
}
