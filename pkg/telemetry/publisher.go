// Package telemetry publishes the vehicle state over MQTT.
package telemetry

import (
	"context"
	"encoding/json"

	"github.com/golang/glog"
)

// Ref identifies a vehicle.
type Ref struct {
	// Type is the vehicle type.
	Type string
	// ID is unique ID of the device.
	ID string
}

// Name retrieves the topic name from ref.
func (r Ref) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates Ref is valid.
func (r Ref) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// Meta describes the vehicle, published retained on the meta topic.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Topic suffixes.
const (
	TopicMeta  = "/meta"
	TopicState = "/state"
)

// Publisher publishes reports of a vehicle.
type Publisher struct {
	Queue *Queue
	Ref   Ref

	metaJSON []byte
}

// NewPublisher creates a Publisher. The meta topic is cleared by
// the broker when the connection drops.
func NewPublisher(brokerURL string, ref Ref, meta Meta) (*Publisher, error) {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+ref.Name()+TopicMeta, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("rcbot:" + ref.Name())
	}
	p := &Publisher{
		Queue:    NewQueue(opts, topicPrefix),
		Ref:      ref,
		metaJSON: metaJSON,
	}
	p.Queue.OnConnect = func(*Queue) { p.onConnected() }
	return p, nil
}

// Publish sends a report without waiting for delivery.
func (p *Publisher) Publish(r Report) error {
	payload, err := r.Encode()
	if err != nil {
		return err
	}
	if !p.Queue.Client.IsConnected() {
		return nil
	}
	p.Queue.Pub(p.Ref.Name()+TopicState, payload)
	return nil
}

// Run implements Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	if token := p.Queue.Connect(); token.Wait() && token.Error() != nil {
		glog.Warningf("MQTT connect error: %v", token.Error())
	}
	<-ctx.Done()
	p.Queue.PubWith(p.Ref.Name()+TopicMeta, nil, 1, true).Wait()
	p.Queue.Close()
	return ctx.Err()
}

func (p *Publisher) onConnected() {
	p.Queue.PubWith(p.Ref.Name()+TopicMeta, p.metaJSON, 1, true)
}
