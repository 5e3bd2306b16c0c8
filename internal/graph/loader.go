// # internal/graph/loader.go
package graph

import (
	"os"

	"hawk/internal/errors"
)

// FSLoader reads include files from the local file system. Reads run on
// their own goroutine so the coordinator's queue gating sees them as
// outstanding asynchronous work, the same shape an editor transport has.
type FSLoader struct{}

func (FSLoader) ReadFile(path string, done func(text string, err error)) {
	go func() {
		data, err := os.ReadFile(path)
		if err != nil {
			done("", errors.AddContext(
				errors.Wrap(err, errors.CodeNotFound, "read include"), errors.CtxPath, path))
			return
		}
		done(string(data), nil)
	}()
}

func (FSLoader) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
