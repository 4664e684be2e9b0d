package utils

// SetSecretsDirForTest points ReadSecret at dir and returns a restore func.
func SetSecretsDirForTest(dir string) func() {
	prev := secretsDir
	secretsDir = dir
	return func() { secretsDir = prev }
}
