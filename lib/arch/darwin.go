//go:build darwin

// Package arch provides platform specific names and defaults for the john binary.
package arch

// GetPlatform returns the name of the platform credscan is running on.
func GetPlatform() string {
	return "darwin"
}

// GetDefaultJohnBinaryName returns the file name john is installed under.
func GetDefaultJohnBinaryName() string {
	return "john"
}

// GetDefaultJohnSearchPaths returns the system locations john is commonly installed to.
// Homebrew installs into /opt/homebrew on Apple silicon and /usr/local on Intel.
func GetDefaultJohnSearchPaths() []string {
	return []string{
		"/opt/homebrew/bin/john",
		"/usr/local/bin/john",
		"/opt/local/bin/john",
	}
}
