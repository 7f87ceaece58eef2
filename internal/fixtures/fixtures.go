// Package fixtures loads the JSON credential sets the login scenarios run
// against.
package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
)

// Credentials is one username/password pair.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CredentialSets holds the valid pair and the named invalid pairs.
type CredentialSets struct {
	Valid   Credentials            `json:"valid_credentials"`
	Invalid map[string]Credentials `json:"invalid_credentials"`
}

// Load reads and validates a credential fixture file.
func Load(path string) (*CredentialSets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials fixture: %w", err)
	}
	sets := &CredentialSets{}
	if err := json.Unmarshal(data, sets); err != nil {
		return nil, fmt.Errorf("failed to parse credentials fixture %s: %w", path, err)
	}
	if sets.Valid.Username == "" || sets.Valid.Password == "" {
		return nil, fmt.Errorf("fixture %s: valid_credentials incomplete", path)
	}
	if len(sets.Invalid) == 0 {
		return nil, fmt.Errorf("fixture %s: no invalid_credentials entries", path)
	}
	return sets, nil
}
