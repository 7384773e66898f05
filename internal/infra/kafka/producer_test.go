package kafka

import (
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/Balerman2/CallShift/internal/infra/config"
)

func TestHandleErrorsDrainsAndClosesChannel(t *testing.T) {
	async := newFakeAsyncProducer()
	p := &Producer{
		producer: async,
		logger:   zaptest.NewLogger(t),
		cfg:      config.KafkaSettings{},
		errChan:  make(chan error, 16),
	}

	go p.handleErrors()

	want := errors.New("broker unavailable")
	async.errors <- &sarama.ProducerError{
		Err: want,
		Msg: &sarama.ProducerMessage{Topic: "callshift.oncall.changed"},
	}
	close(async.errors)

	var got []error
	deadline := time.After(2 * time.Second)
	for {
		select {
		case err, ok := <-p.Errors():
			if !ok {
				if len(got) != 1 || !errors.Is(got[0], want) {
					t.Fatalf("expected the forwarded producer error, got %v", got)
				}
				return
			}
			got = append(got, err)
		case <-deadline:
			t.Fatal("error channel was not closed after the producer errors drained")
		}
	}
}

func TestTopicNamePrefixing(t *testing.T) {
	p := &Producer{cfg: config.KafkaSettings{TopicPrefix: "ops"}}

	if got := p.TopicName("callshift.user.created"); got != "ops.callshift.user.created" {
		t.Errorf("unexpected topic %q", got)
	}
	if got := p.TopicName("ops.callshift.user.created"); got != "ops.callshift.user.created" {
		t.Errorf("prefixed topic must not be double-prefixed, got %q", got)
	}

	bare := &Producer{cfg: config.KafkaSettings{}}
	if got := bare.TopicName("callshift.user.created"); got != "callshift.user.created" {
		t.Errorf("unexpected topic %q", got)
	}
}
