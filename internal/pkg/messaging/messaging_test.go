package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"cloud.google.com/go/pubsub/v2/pstest"
	"github.com/nats-io/nats.go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestNewFromDriver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		driver  string
		opts    FactoryOptions
		wantErr error
	}{
		{name: "empty is noop", driver: ""},
		{name: "none", driver: DriverNone},
		{name: "unknown", driver: "rabbitmq", wantErr: ErrUnknownDriver},
		{name: "nats without url", driver: DriverNATS, wantErr: ErrNATSURLRequired},
		{name: "nsq without address", driver: DriverNSQ, wantErr: ErrNSQProducerAddrRequired},
		{name: "kafka without brokers", driver: DriverKafka, wantErr: ErrKafkaBrokersRequired},
		{name: "kafka is lazy", driver: DriverKafka, opts: FactoryOptions{Kafka: KafkaConfig{Brokers: []string{"127.0.0.1:1"}}}},
		{name: "nsq is lazy", driver: DriverNSQ, opts: FactoryOptions{NSQ: NSQConfig{ProducerAddr: "127.0.0.1:1"}}},
		{name: "pubsub without project", driver: DriverGooglePubSub, wantErr: ErrPubSubProjectIDRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Act
			pub, err := NewFromDriver(context.Background(), tt.driver, tt.opts)

			// Assert
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewFromDriver() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil {
				if pub == nil {
					t.Fatal("NewFromDriver() returned nil publisher")
				}
				if err := pub.Close(); err != nil {
					t.Fatalf("Close() error = %v", err)
				}
			}
		})
	}
}

func TestNoop_Publish(t *testing.T) {
	t.Parallel()

	pub := NewNoop()

	if err := pub.Publish(context.Background(), "otp_events", Message{Body: []byte("{}")}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := pub.Publish(context.Background(), "", Message{}); !errors.Is(err, ErrDestinationRequired) {
		t.Fatalf("Publish() empty destination error = %v", err)
	}
}

func TestClosedPublishers(t *testing.T) {
	t.Parallel()

	k, err := NewKafka(KafkaConfig{Brokers: []string{"127.0.0.1:1"}})
	if err != nil {
		t.Fatalf("NewKafka() error = %v", err)
	}
	n, err := NewNSQ(NSQConfig{ProducerAddr: "127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewNSQ() error = %v", err)
	}

	for name, pub := range map[string]Publisher{"kafka": k, "nsq": n} {
		if err := pub.Close(); err != nil {
			t.Fatalf("%s Close() error = %v", name, err)
		}
		if err := pub.Close(); err != nil {
			t.Fatalf("%s second Close() error = %v", name, err)
		}
		if err := pub.Publish(context.Background(), "otp_events", Message{}); !errors.Is(err, ErrClosed) {
			t.Fatalf("%s Publish() after close error = %v, want ErrClosed", name, err)
		}
	}
}

func TestNATS_Publish(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "nats:2.10-alpine",
			ExposedPorts: []string{"4222/tcp"},
			WaitingFor:   wait.ForListeningPort("4222/tcp"),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start nats: %v", err)
	}

	url, err := ctr.PortEndpoint(ctx, "4222/tcp", "nats")
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}

	sub, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connect subscriber: %v", err)
	}
	t.Cleanup(sub.Close)

	s, err := sub.SubscribeSync("otp_events")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := sub.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	pub, err := NewNATS(NATSConfig{URL: url})
	if err != nil {
		t.Fatalf("NewNATS() error = %v", err)
	}
	t.Cleanup(func() { _ = pub.Close() })

	// Act
	err = pub.Publish(ctx, "otp_events", Message{
		Body:    []byte(`{"outcome":"verified"}`),
		Headers: map[string]string{"Content-Type": "application/json"},
	})

	// Assert
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	got, err := s.NextMsg(5 * time.Second)
	if err != nil {
		t.Fatalf("NextMsg() error = %v", err)
	}
	if string(got.Data) != `{"outcome":"verified"}` {
		t.Fatalf("data = %s", got.Data)
	}
	if got.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("header = %v", got.Header)
	}
}

func newPubSubFake(t *testing.T) (*pstest.Server, *pubsub.Client) {
	t.Helper()

	srv := pstest.NewServer()
	t.Cleanup(func() { _ = srv.Close() })

	_, err := srv.GServer.CreateTopic(context.Background(), &pubsubpb.Topic{Name: "projects/otpgate/topics/otp_events"})
	if err != nil {
		t.Fatalf("create topic: %v", err)
	}

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial fake: %v", err)
	}

	client, err := pubsub.NewClient(context.Background(), "otpgate", option.WithGRPCConn(conn))
	if err != nil {
		t.Fatalf("pubsub.NewClient() error = %v", err)
	}

	return srv, client
}

func TestPubSub_Publish(t *testing.T) {
	t.Parallel()

	// Arrange
	srv, client := newPubSubFake(t)
	pub, err := NewPubSub(context.Background(), PubSubConfig{Client: client})
	if err != nil {
		t.Fatalf("NewPubSub() error = %v", err)
	}
	t.Cleanup(func() { _ = pub.Close() })

	// Act
	err = pub.Publish(context.Background(), "otp_events", Message{
		Key:     []byte("42"),
		Body:    []byte(`{"outcome":"sent"}`),
		Headers: map[string]string{"Content-Type": "application/json", "": "dropped"},
	})

	// Assert
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	msgs := srv.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	if string(msgs[0].Data) != `{"outcome":"sent"}` {
		t.Fatalf("data = %s", msgs[0].Data)
	}
	if msgs[0].Attributes["Content-Type"] != "application/json" {
		t.Fatalf("attributes = %v", msgs[0].Attributes)
	}
	if _, ok := msgs[0].Attributes[""]; ok {
		t.Fatalf("empty attribute key kept: %v", msgs[0].Attributes)
	}
}

func TestPubSub_PublishErrors(t *testing.T) {
	t.Parallel()

	_, client := newPubSubFake(t)
	pub, err := NewPubSub(context.Background(), PubSubConfig{Client: client})
	if err != nil {
		t.Fatalf("NewPubSub() error = %v", err)
	}

	if err := pub.Publish(context.Background(), "", Message{}); !errors.Is(err, ErrDestinationRequired) {
		t.Fatalf("Publish() empty destination error = %v", err)
	}
	if err := pub.Publish(context.Background(), "missing_topic", Message{Body: []byte("x")}); err == nil {
		t.Fatal("Publish() to missing topic error = nil")
	}

	if err := pub.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if err := pub.Publish(context.Background(), "otp_events", Message{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Publish() after close error = %v, want ErrClosed", err)
	}
}
