package config

import "time"

// OrderConfig 订单超时回收相关配置，均为外部可配项
type OrderConfig struct {
	ReservationTimeoutMinutes int `json:"reservation_timeout_minutes" yaml:"reservation_timeout_minutes"`
	SweepIntervalSeconds      int `json:"sweep_interval_seconds" yaml:"sweep_interval_seconds"`
	SweepBatchSize            int `json:"sweep_batch_size" yaml:"sweep_batch_size"`
}

func (o *OrderConfig) ReservationTimeout() time.Duration {
	if o == nil || o.ReservationTimeoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(o.ReservationTimeoutMinutes) * time.Minute
}

func (o *OrderConfig) SweepInterval() time.Duration {
	if o == nil || o.SweepIntervalSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(o.SweepIntervalSeconds) * time.Second
}

func (o *OrderConfig) BatchSize() int {
	if o == nil || o.SweepBatchSize <= 0 {
		return 100
	}
	return o.SweepBatchSize
}

func ProvideOrderConfig(cfg *Config) *OrderConfig {
	return cfg.Order
}
