//go:build linux

// Package arch provides platform specific names and defaults for the john binary.
package arch

// GetPlatform returns the name of the platform credscan is running on.
func GetPlatform() string {
	return "linux"
}

// GetDefaultJohnBinaryName returns the file name john is installed under.
func GetDefaultJohnBinaryName() string {
	return "john"
}

// GetDefaultJohnSearchPaths returns the system locations john is commonly installed to.
func GetDefaultJohnSearchPaths() []string {
	return []string{
		"/usr/sbin/john",
		"/usr/bin/john",
		"/usr/local/bin/john",
		"/snap/bin/john-the-ripper",
		"/opt/john/run/john",
	}
}
