//go:build windows

// Package arch provides platform specific names and defaults for the john binary.
package arch

// GetPlatform returns the name of the platform credscan is running on.
func GetPlatform() string {
	return "windows"
}

// GetDefaultJohnBinaryName returns the file name john is installed under.
func GetDefaultJohnBinaryName() string {
	return "john.exe"
}

// GetDefaultJohnSearchPaths returns the system locations john is commonly installed to.
func GetDefaultJohnSearchPaths() []string {
	return []string{
		`C:\john\run\john.exe`,
		`C:\Program Files\John the Ripper\run\john.exe`,
	}
}
