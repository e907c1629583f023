package sshserve

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	charmssh "github.com/charmbracelet/ssh"
	gossh "golang.org/x/crypto/ssh"
)

// LoadAuthorizedKeys reads public keys from an authorized_keys file.
// Blank lines, comments and unparsable lines are skipped.
func LoadAuthorizedKeys(path string) ([]charmssh.PublicKey, error) {
	f, err := os.Open(path) //nolint:gosec // G304: operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("opening authorized keys: %w", err)
	}
	defer func() { _ = f.Close() }()

	var keys []charmssh.PublicKey
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pubKey, _, _, _, err := gossh.ParseAuthorizedKey([]byte(line))
		if err != nil {
			continue
		}
		keys = append(keys, pubKey)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading authorized keys: %w", err)
	}
	return keys, nil
}

// Authorized reports whether key is one of the authorized keys.
func Authorized(authorized []charmssh.PublicKey, key charmssh.PublicKey) bool {
	for _, k := range authorized {
		if charmssh.KeysEqual(key, k) {
			return true
		}
	}
	return false
}
