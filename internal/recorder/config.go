package recorder

type Config struct { //nolint:maligned
	Enabled        bool   `hcl:"enable"`
	Source         string `hcl:"source"`
	PersistPath    string `hcl:"persist_path"`
	LogDebug       bool   `hcl:"log_debug"`
	LogEvents      bool   `hcl:"log_events"`
	MqttBroker     string `hcl:"mqtt_broker"`
	MqttClientId   string `hcl:"mqtt_client_id"`
	MqttPassword   string `hcl:"mqtt_password"` // secret
	MqttTopic      string `hcl:"mqtt_topic"`
	MqttStorePath  string `hcl:"mqtt_store_path"`
	KeepaliveSec   int    `hcl:"keepalive_sec"`
	PingTimeoutSec int    `hcl:"ping_timeout_sec"`
	SendTimeoutSec int    `hcl:"send_timeout_sec"`
}
