package dictionary

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Credential is a username/password pair. Default marks entries from a
// module's built-in list.
type Credential struct {
	Username string
	Password string
	Default  bool
}

func NewCredential(username, password string, isDefault bool) Credential {
	return Credential{
		Username: strings.TrimSpace(username),
		Password: strings.TrimSpace(password),
		Default:  isDefault,
	}
}

// DisplayPassword renders an empty password as "(empty)".
func (c Credential) DisplayPassword() string {
	if c.Password == "" {
		return "(empty)"
	}
	return c.Password
}

func (c Credential) String() string {
	return c.Username + ":" + c.DisplayPassword()
}

// ErrNoCredentials is returned when parsing leaves nothing to try.
var ErrNoCredentials = errors.New("no credentials available for dictionary attack")

// LoadCredentials builds the list to try, in order. Supported params:
//   - credentials_file: path to a file of "user:pass" lines
//   - credentials: list of "user:pass" strings or {username,password} maps
//
// Defaults are used only when params supply nothing. Duplicates keep their
// first position.
func LoadCredentials(params map[string]any, defaults []Credential) ([]Credential, error) {
	var creds []Credential
	if params != nil {
		if file, ok := params["credentials_file"].(string); ok && strings.TrimSpace(file) != "" {
			fromFile, err := loadFromFile(file)
			if err != nil {
				return nil, err
			}
			creds = append(creds, fromFile...)
		}

		if raw, ok := params["credentials"]; ok {
			creds = append(creds, parseParam(raw)...)
		}
	}

	if len(creds) == 0 {
		creds = append(creds, defaults...)
	}

	creds = deduplicate(creds)
	if len(creds) == 0 {
		return nil, ErrNoCredentials
	}
	return creds, nil
}

func loadFromFile(path string) ([]Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	var creds []Credential
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if c, ok := fromEntry(line); ok {
			creds = append(creds, c)
		}
	}
	return creds, nil
}

func parseParam(raw any) []Credential {
	var creds []Credential
	switch v := raw.(type) {
	case string:
		// Comma separated, as passed by --opt credentials=a:b,c:d
		for _, entry := range strings.Split(v, ",") {
			if c, ok := fromEntry(entry); ok {
				creds = append(creds, c)
			}
		}
	case []string:
		for _, entry := range v {
			if c, ok := fromEntry(entry); ok {
				creds = append(creds, c)
			}
		}
	case []any:
		for _, entry := range v {
			switch e := entry.(type) {
			case string:
				if c, ok := fromEntry(e); ok {
					creds = append(creds, c)
				}
			case map[string]any:
				if c, ok := fromMap(e); ok {
					creds = append(creds, c)
				}
			}
		}
	case map[string]any:
		if c, ok := fromMap(v); ok {
			creds = append(creds, c)
		}
	}
	return creds
}

func fromEntry(entry string) (Credential, bool) {
	user, pass, _ := strings.Cut(entry, ":")
	c := NewCredential(user, pass, false)
	return c, c.Username != "" || c.Password != ""
}

func fromMap(m map[string]any) (Credential, bool) {
	user, _ := m["username"].(string)
	pass, _ := m["password"].(string)
	c := NewCredential(user, pass, false)
	return c, c.Username != "" || c.Password != ""
}

func deduplicate(creds []Credential) []Credential {
	index := make(map[string]int, len(creds))
	out := make([]Credential, 0, len(creds))
	for _, cred := range creds {
		key := cred.Username + "\x00" + cred.Password
		if i, ok := index[key]; ok {
			if out[i].Default && !cred.Default {
				out[i] = cred
			}
			continue
		}
		index[key] = len(out)
		out = append(out, cred)
	}
	return out
}
