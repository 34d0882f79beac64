package nats

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/productapi/pkg/messaging"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
)

// skipIntegrationTests is the environment variable that controls whether to skip integration tests.
const skipIntegrationTests = "PRODUCT_SKIP_INTEGRATION_TESTS"
const natsImg = "nats:2.11.6-alpine"

type productEvent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func (e productEvent) Subject() string          { return messaging.ProductsSubjectPrefix + e.Type }
func (e productEvent) Payload() ([]byte, error) { return json.Marshal(e) }

type orphanEvent struct{}

func (orphanEvent) Subject() string          { return "orphan.created" }
func (orphanEvent) Payload() ([]byte, error) { return []byte(`{}`), nil }

type PublisherSuite struct {
	suite.Suite
	ctx           context.Context
	logger        *slog.Logger
	natsContainer *nats.NATSContainer
	nc            *natsgo.Conn
	js            jetstream.JetStream
}

func (s *PublisherSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var err error
	s.natsContainer, err = nats.Run(s.ctx, natsImg)
	s.Require().NoError(err, "Failed to run NATS container")

	natsURL, err := s.natsContainer.ConnectionString(s.ctx)
	s.Require().NoError(err)

	s.nc, err = NewClient(natsURL, "product-api-test", 5*time.Second)
	s.Require().NoError(err)

	s.js, err = NewJetStreamContext(s.nc)
	s.Require().NoError(err)
}

func (s *PublisherSuite) TearDownSuite() {
	s.nc.Close()
	if err := testcontainers.TerminateContainer(s.natsContainer); err != nil {
		s.logger.Error("Failed to terminate NATS container", "error", err)
	}
}

func TestPublisherIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) TestEnsureStream_Idempotent() {
	// given
	_, err := EnsureStream(s.ctx, s.js, "PRODUCTS_IDEMPOTENT", "idem.>")
	s.Require().NoError(err)
	// when
	stream, err := EnsureStream(s.ctx, s.js, "PRODUCTS_IDEMPOTENT", "idem.>", "idem2.>")
	// then
	s.Require().NoError(err)
	info, err := stream.Info(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"idem.>", "idem2.>"}, info.Config.Subjects)
}

func (s *PublisherSuite) TestPublish_StoresEventOnStream() {
	// given
	stream, err := EnsureStream(s.ctx, s.js, "PRODUCTS", messaging.ProductsSubjects)
	s.Require().NoError(err)
	publisher := NewNatsPublisher(s.js)
	// when
	err = publisher.Publish(s.ctx, productEvent{Type: "created", ID: "42"})
	// then
	s.Require().NoError(err)
	msg, err := stream.GetLastMsgForSubject(s.ctx, messaging.ProductsCreatedSubject)
	s.Require().NoError(err)
	var got productEvent
	s.Require().NoError(json.Unmarshal(msg.Data, &got))
	s.Equal("42", got.ID)
}

func (s *PublisherSuite) TestPublish_NoStreamFails() {
	publisher := NewNatsPublisher(s.js)

	err := publisher.Publish(s.ctx, orphanEvent{})

	s.Error(err)
}
