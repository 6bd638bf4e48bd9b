package assetdiscovery

import (
	"context"
	"encoding/json"
	"time"

	"github.com/everFinance/assetdiscovery/schema"
	"github.com/segmentio/kafka-go"
)

const kafkaWriteTimeout = 5 * time.Second

type KWriter struct {
	w    *kafka.Writer
	node string
}

func NewKWriter(topic, uri, node string) (*KWriter, error) {
	w := &kafka.Writer{
		Addr:     kafka.TCP(uri),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}

	return &KWriter{
		w:    w,
		node: node,
	}, nil
}

func (kw *KWriter) Write(key, body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), kafkaWriteTimeout)
	defer cancel()
	return kw.w.WriteMessages(ctx,
		kafka.Message{
			Key:   key,
			Value: body,
		},
	)
}

// Publish keys messages by domain so one domain's events stay ordered.
func (kw *KWriter) Publish(ev schema.Event) error {
	body, err := json.Marshal(schema.KafkaEvent{Event: ev, Node: kw.node})
	if err != nil {
		return err
	}
	return kw.Write([]byte(ev.Domain), body)
}

func (kw *KWriter) Close() {
	kw.w.Close()
}
