package config

type Config struct {
	Gateway GatewayConfig `yaml:"gateway" json:"gateway"`
	Crisp   CrispConfig   `yaml:"crisp" json:"crisp"`
}

type GatewayConfig struct {
	Port int        `yaml:"port" json:"port"`
	Auth AuthConfig `yaml:"auth" json:"auth"`
	CORS CORSConfig `yaml:"cors" json:"cors"`
}

type AuthConfig struct {
	Token string `yaml:"token" json:"token"`
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allowOrigins" json:"allowOrigins"`
}

// CrispConfig carries the values the build-time plugin would write into the
// native manifest/plist: the bridge receives them already resolved.
type CrispConfig struct {
	WebsiteID     string              `yaml:"websiteId" json:"websiteId"`
	Platform      string              `yaml:"platform" json:"platform"` // "android" | "apple"
	LogLevel      int                 `yaml:"logLevel" json:"logLevel"` // shared 0-5 scale
	Notifications NotificationsConfig `yaml:"notifications" json:"notifications"`
}

type NotificationsConfig struct {
	Mode            string `yaml:"mode" json:"mode"` // "sdk-managed" | "coexistence"
	RefreshSchedule string `yaml:"refreshSchedule" json:"refreshSchedule"`
}

func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Port: 19810,
		},
		Crisp: CrispConfig{
			Platform: "android",
			LogLevel: 3,
			Notifications: NotificationsConfig{
				Mode: "sdk-managed",
			},
		},
	}
}
