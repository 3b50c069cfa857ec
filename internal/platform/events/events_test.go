package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, topic: "hms.events"}

	evt := New(TypePaymentCompleted, "pay-1", map[string]interface{}{"amount": 250.5})
	if err := p.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "pay-1" {
		t.Errorf("expected key pay-1, got %s", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != TypePaymentCompleted {
		t.Errorf("expected event_type header, got %+v", msg.Headers)
	}

	var decoded Event
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != TypePaymentCompleted || decoded.ID == "" {
		t.Errorf("unexpected event %+v", decoded)
	}
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}, topic: "hms.events"}

	err := p.Publish(context.Background(), New(TypeInvoiceGenerated, "inv-1", nil))
	if err == nil || !strings.Contains(err.Error(), "broker down") {
		t.Errorf("expected wrapped broker error, got %v", err)
	}
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}
	p.Close()
	if !w.closed {
		t.Error("expected writer to be closed")
	}
}

func TestEmit_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	Emit(ctx, &Recorder{Err: errors.New("broker down")}, New(TypeLabReportUploaded, "order-9", nil))

	if !strings.Contains(buf.String(), "publish event failed") || !strings.Contains(buf.String(), "order-9") {
		t.Errorf("expected warning log, got %s", buf.String())
	}
}

func TestEmit_NilPublisher(t *testing.T) {
	Emit(context.Background(), nil, New(TypePaymentCompleted, "pay-1", nil))
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Publish(context.Background(), New(TypePaymentCompleted, "a", nil))
	r.Publish(context.Background(), New(TypeInvoiceGenerated, "b", nil))

	got := r.Events()
	if len(got) != 2 || got[0].Key != "a" || got[1].Type != TypeInvoiceGenerated {
		t.Errorf("unexpected events %+v", got)
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	if err := p.Publish(context.Background(), New(TypePaymentCompleted, "x", nil)); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestFanout_PublishesToAll(t *testing.T) {
	failing := &Recorder{Err: errors.New("broker down")}
	ok := &Recorder{}
	f := Fanout{failing, ok}

	err := f.Publish(context.Background(), New(TypeInvoiceGenerated, "inv-1", nil))
	if err == nil || !strings.Contains(err.Error(), "broker down") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(ok.Events()) != 1 {
		t.Errorf("expected later publisher to still receive the event, got %d", len(ok.Events()))
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}
