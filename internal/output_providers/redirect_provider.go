package outputproviders

import (
	"errors"

	"golang.org/x/text/encoding"

	"github.com/praetorian-inc/conch/pkg/cmdline"
)

// OpenRedirectionWriter opens a sink for each redirection. A single redirection
// yields its FileWriter, several yield a MultiWriter over all of them. When any
// target fails to open, the ones already opened are closed again.
func OpenRedirectionWriter(redirections []cmdline.OutputRedirection, workingDir string, enc encoding.Encoding) (OutputWriter, error) {
	if len(redirections) == 0 {
		return nil, errors.New("no redirections to open")
	}
	writers := make([]OutputWriter, 0, len(redirections))
	for _, r := range redirections {
		fw, err := openFile(r, workingDir, enc)
		if err != nil {
			for _, w := range writers {
				_ = w.Close()
			}
			return nil, err
		}
		writers = append(writers, fw)
	}
	if len(writers) == 1 {
		return writers[0], nil
	}
	return NewMultiWriter(writers...), nil
}

func openFile(r cmdline.OutputRedirection, workingDir string, enc encoding.Encoding) (*FileWriter, error) {
	fp, err := NewFileProvider(r, workingDir, enc)
	if err != nil {
		return nil, err
	}
	return fp.Open()
}
