package utils

import (
	"fmt"
	"os"
	"strings"
)

// secretsDir is the Docker Secrets mount point. Tests override it.
var secretsDir = "/run/secrets"

// ReadSecret returns the value of envVar when it is set, otherwise the
// contents of the Docker secret file secretName.
func ReadSecret(envVar, secretName string) (string, error) {
	if envVar != "" {
		if value := strings.TrimSpace(os.Getenv(envVar)); value != "" {
			return value, nil
		}
	}

	filePath := fmt.Sprintf("%s/%s", secretsDir, secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("secret %s not set and secret file %s unreadable: %w", envVar, filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}
