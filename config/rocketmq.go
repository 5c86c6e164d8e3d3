package config

type RocketMQConfig struct {
	Enable     bool     `json:"enable" yaml:"enable"`
	NameServer []string `json:"name_server" yaml:"name_server"`
	Group      string   `json:"group" yaml:"group"`
	Topic      string   `json:"topic" yaml:"topic"`
}

func ProvideRocketMQConfig(cfg *Config) *RocketMQConfig {
	return cfg.RocketMQ
}
