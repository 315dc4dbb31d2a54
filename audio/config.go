package audio

// Backend names accepted by Config.Backend
const (
	BackendAuto   = "auto"
	BackendBeep   = "beep"
	BackendSystem = "system"
	BackendBell   = "bell"
	BackendNone   = "none"
)

// Config holds playback settings
type Config struct {
	Backend       string `mapstructure:"backend"`
	Volume        int    `mapstructure:"volume"` // 0-100
	SampleRate    int    `mapstructure:"sample_rate"`
	BufferMs      int    `mapstructure:"buffer_ms"`
	MaxConcurrent int    `mapstructure:"max_concurrent"`
	CacheSize     int    `mapstructure:"cache_size"`
	MaxAssetBytes int64  `mapstructure:"max_asset_bytes"`
}

// DefaultConfig returns the default playback settings
func DefaultConfig() *Config {
	return &Config{
		Backend:       BackendAuto,
		Volume:        80,
		SampleRate:    44100,
		BufferMs:      50,
		MaxConcurrent: 8,
		CacheSize:     64,
		MaxAssetBytes: 8 << 20,
	}
}

// Normalize clamps out-of-range values and fills zero fields from defaults
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.Volume < 0 {
		c.Volume = 0
	}
	if c.Volume > 100 {
		c.Volume = 100
	}
	if c.SampleRate <= 0 {
		c.SampleRate = def.SampleRate
	}
	if c.BufferMs <= 0 {
		c.BufferMs = def.BufferMs
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = def.MaxConcurrent
	}
	if c.CacheSize <= 0 {
		c.CacheSize = def.CacheSize
	}
	if c.MaxAssetBytes <= 0 {
		c.MaxAssetBytes = def.MaxAssetBytes
	}
}

// MasterVolume returns the volume as 0.0-1.0
func (c *Config) MasterVolume() float64 {
	v := float64(c.Volume) / 100.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
