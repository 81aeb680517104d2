package common

import (
	"io"
	"os"
)

// ReadInput reads all of inputFile, or stdin when inputFile is empty.
func ReadInput(inputFile string) ([]byte, error) {
	if inputFile == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(inputFile) // #nosec G304 - CLI tool reads user-specified input files
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// OpenOutput creates outputFile, or returns stdout when it is empty. The
// caller closes the result; closing stdout this way is a no-op.
func OpenOutput(outputFile string) (io.WriteCloser, error) {
	if outputFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outputFile) // #nosec G304 - CLI tool writes to user-specified output files
}
