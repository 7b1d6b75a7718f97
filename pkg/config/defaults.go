package config

const (
	defaultRelayListen   = ":8080"
	defaultAPIListen     = ":8081"
	defaultUpstream      = "https://ai.gateway.lovable.dev/v1"
	defaultModel         = "google/gemini-2.5-flash"
	defaultHeaderTimeout = "30s"
	defaultRateBurst     = 10

	defaultStoreURL = "memory://"

	defaultClientRelayTarget = "http://localhost:8080"
	defaultClientAPITarget   = "http://localhost:8081"

	defaultEventStreamTopic = "planora.chat.relayed"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Relay: RelayConfig{
			Listen:        defaultRelayListen,
			Upstream:      defaultUpstream,
			Model:         defaultModel,
			HeaderTimeout: defaultHeaderTimeout,
			RateBurst:     defaultRateBurst,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Store: StoreConfig{
			URL: defaultStoreURL,
		},
		Client: ClientConfig{
			RelayTarget: defaultClientRelayTarget,
			APITarget:   defaultClientAPITarget,
		},
		EventStream: EventStreamConfig{
			Topic: defaultEventStreamTopic,
		},
	}
}
