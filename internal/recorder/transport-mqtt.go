package recorder

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/temoto/expinput/helpers"
	"github.com/temoto/expinput/log2"
)

const (
	defaultKeepalive   = 60 * time.Second
	defaultPingTimeout = 30 * time.Second
	defaultSendTimeout = 5 * time.Second
)

type mqttTimeouts struct {
	keepalive time.Duration
	ping      time.Duration
	// publish ack wait, also offline marker and disconnect wait on Close
	send time.Duration
	// reconnect attempts twice per keepalive
	retry time.Duration
}

func newMqttTimeouts(config Config) mqttTimeouts {
	t := mqttTimeouts{
		keepalive: helpers.IntSecondDefault(config.KeepaliveSec, defaultKeepalive),
		ping:      helpers.IntSecondDefault(config.PingTimeoutSec, defaultPingTimeout),
		send:      helpers.IntSecondDefault(config.SendTimeoutSec, defaultSendTimeout),
	}
	t.retry = t.keepalive / 2
	return t
}

type transportMqtt struct {
	log  *log2.Log
	m    mqtt.Client
	mopt *mqtt.ClientOptions

	sendTimeout  time.Duration
	topicConnect string
	topicEvents  string
}

func (self *transportMqtt) Init(log *log2.Log, config Config) error {
	if config.MqttBroker == "" {
		return errors.NotValidf("recorder mqtt_broker empty")
	}
	self.log = log
	mqtt.ERROR = log
	mqtt.CRITICAL = log
	mqtt.WARN = log
	clientId := config.MqttClientId
	if clientId == "" {
		clientId = config.Source
	}
	credFun := func() (string, string) {
		return clientId, config.MqttPassword
	}
	topic := config.MqttTopic
	if topic == "" {
		topic = clientId
	}
	self.topicConnect = fmt.Sprintf("%s/c", topic)
	self.topicEvents = fmt.Sprintf("%s/w/events", topic)
	timeouts := newMqttTimeouts(config)
	self.sendTimeout = timeouts.send

	self.mopt = mqtt.NewClientOptions().
		AddBroker(config.MqttBroker).
		SetBinaryWill(self.topicConnect, []byte{0x00}, 1, true).
		SetCleanSession(false).
		SetClientID(clientId).
		SetCredentialsProvider(credFun).
		SetKeepAlive(timeouts.keepalive).
		SetPingTimeout(timeouts.ping).
		SetOrderMatters(true).
		SetConnectRetryInterval(timeouts.retry).
		SetOnConnectHandler(self.onConnectHandler).
		SetConnectionLostHandler(self.connectLostHandler).
		SetConnectRetry(true)
	if config.MqttStorePath != "" {
		self.mopt.SetStore(mqtt.NewFileStore(config.MqttStorePath))
	}
	self.m = mqtt.NewClient(self.mopt)
	if token := self.m.Connect(); token.Error() != nil {
		self.log.Errorf("mqtt connect err=%v", token.Error())
	}
	return nil
}

func (self *transportMqtt) Close() {
	if self.m == nil {
		return
	}
	self.m.Publish(self.topicConnect, 1, true, []byte{0x00}).WaitTimeout(self.sendTimeout)
	self.m.Disconnect(uint(self.sendTimeout / time.Millisecond))
	self.log.Infof("mqtt disconnect")
}

func (self *transportMqtt) Send(payload []byte) bool {
	if !self.m.IsConnectionOpen() {
		return false
	}
	token := self.m.Publish(self.topicEvents, 1, false, payload)
	if !token.WaitTimeout(self.sendTimeout) {
		self.log.Errorf("mqtt publish topic=%s timeout", self.topicEvents)
		return false
	}
	if err := token.Error(); err != nil {
		self.log.Errorf("mqtt publish topic=%s err=%v", self.topicEvents, err)
		return false
	}
	return true
}

func (self *transportMqtt) connectLostHandler(c mqtt.Client, err error) {
	self.log.Infof("mqtt disconnect err=%v", err)
}

func (self *transportMqtt) onConnectHandler(c mqtt.Client) {
	self.log.Infof("mqtt connect")
	c.Publish(self.topicConnect, 1, true, []byte{0x01})
}
