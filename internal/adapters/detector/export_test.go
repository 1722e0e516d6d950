package detector

// Detect exposes the pure detection rule for tests.
func Detect(isTTY bool, ci string) LogFormat {
	return detect(isTTY, ci)
}
