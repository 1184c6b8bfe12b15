package asynclog

import "sync"

var (
	defaultService *Service
	defaultOnce    sync.Once
)

// Default returns the process-wide Service, constructed on first use. It is
// not initialized: call Init or Initialize on it once at startup. Code that
// can have a Service passed in should prefer that over Default.
func Default() *Service {
	defaultOnce.Do(func() {
		defaultService = NewLogger()
	})
	return defaultService
}
