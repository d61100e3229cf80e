package client

import "sync"

var (
	defaultMu     sync.RWMutex
	defaultClient *Client
	defaultConfig *Config
)

// Configure sets the configuration used by Default. It does not open a
// connection; the first Default call after it does. A client that is
// already open keeps serving until Close is called.
func Configure(cfg Config) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultConfig = &cfg
}

// Default returns the shared client, initializing it on first use.
// Without a prior Configure call the configuration is loaded from the
// environment. After Close, the next call re-initializes the client.
func Default() (*Client, error) {
	defaultMu.RLock()
	c := defaultClient
	defaultMu.RUnlock()
	if c != nil {
		return c, nil
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	// Re-check: another goroutine may have initialized while we waited.
	if defaultClient != nil {
		return defaultClient, nil
	}

	cfg := defaultConfig
	if cfg == nil {
		loaded, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		defaultConfig = loaded
		cfg = loaded
	}

	c, err := NewClient(*cfg)
	if err != nil {
		return nil, err
	}
	defaultClient = c
	return c, nil
}

// Close disconnects and clears the shared client. The next Default call
// re-initializes it from the stored configuration.
func Close() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		return nil
	}
	err := defaultClient.Disconnect()
	defaultClient = nil
	return err
}
