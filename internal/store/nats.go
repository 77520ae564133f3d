package store

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/contentflow-ai/platform/internal/model"
	"github.com/contentflow-ai/platform/pkg/logger"
	"github.com/contentflow-ai/platform/pkg/metrics"
)

const (
	// streamName is the JetStream stream holding analytics records.
	streamName = "CONTENTFLOW_ANALYTICS"

	// analyticsSubject is the subject analytics records are published to.
	analyticsSubject = "analytics.events"
)

// NATSConfig holds NATS connection configuration.
type NATSConfig struct {
	URL      string
	CAFile   string
	CertFile string
	KeyFile  string
	Token    string
}

// NATSStore is a JetStream-backed analytics store. Append publishes to a
// file-storage stream; All replays the stream through an ephemeral consumer.
type NATSStore struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *logger.Logger
}

// OpenNATSStore connects to NATS and ensures the analytics stream exists.
func OpenNATSStore(ctx context.Context, cfg NATSConfig, log *logger.Logger) (*NATSStore, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	}

	if cfg.CAFile != "" && cfg.CertFile != "" && cfg.KeyFile != "" {
		tlsConfig, err := createTLSConfig(cfg.CAFile, cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		opts = append(opts, nats.Secure(tlsConfig))
	}

	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	s := &NATSStore{conn: nc, js: js, logger: log}
	if err := s.ensureStream(ctx); err != nil {
		nc.Close()
		return nil, err
	}

	return s, nil
}

func (s *NATSStore) ensureStream(ctx context.Context) error {
	if _, err := s.js.Stream(ctx, streamName); err == nil {
		return nil
	}

	_, err := s.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        streamName,
		Subjects:    []string{analyticsSubject},
		Retention:   jetstream.LimitsPolicy,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		DenyDelete:  true,
		DenyPurge:   true,
		Description: "Append-only analytics records",
	})
	if err != nil {
		return fmt.Errorf("failed to create analytics stream: %w", err)
	}
	return nil
}

// Append publishes one record to the analytics stream.
func (s *NATSStore) Append(ctx context.Context, payload json.RawMessage) (*model.AnalyticsRecord, error) {
	record := model.AnalyticsRecord{
		ReceivedAt: time.Now().UTC(),
		Payload:    payload,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analytics record: %w", err)
	}

	if _, err := s.js.Publish(ctx, analyticsSubject, data); err != nil {
		metrics.AnalyticsEventsTotal.WithLabelValues("append", "nats", "error").Inc()
		return nil, fmt.Errorf("failed to publish analytics record: %w", err)
	}

	metrics.AnalyticsEventsTotal.WithLabelValues("append", "nats", "success").Inc()
	return &record, nil
}

// All replays the full stream in insertion order.
func (s *NATSStore) All(ctx context.Context) ([]model.AnalyticsRecord, error) {
	consumer, err := s.js.CreateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		FilterSubject: analyticsSubject,
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	var records []model.AnalyticsRecord
	for {
		batch, err := consumer.Fetch(100, jetstream.FetchMaxWait(time.Second))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) {
				break
			}
			return nil, fmt.Errorf("failed to fetch analytics records: %w", err)
		}

		n := 0
		for msg := range batch.Messages() {
			var record model.AnalyticsRecord
			if err := json.Unmarshal(msg.Data(), &record); err != nil {
				s.logger.Warn("skipping malformed analytics record", zap.Error(err))
				n++
				continue
			}
			records = append(records, record)
			n++
		}
		if batch.Error() != nil && !errors.Is(batch.Error(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("batch error: %w", batch.Error())
		}
		if n < 100 {
			break
		}
	}

	metrics.AnalyticsEventsTotal.WithLabelValues("read", "nats", "success").Inc()
	return records, nil
}

// Ping reports whether the NATS connection is up.
func (s *NATSStore) Ping(ctx context.Context) error {
	if s.conn == nil || !s.conn.IsConnected() {
		return errors.New("NATS not connected")
	}
	return nil
}

// Close drains the NATS connection.
func (s *NATSStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}

func createTLSConfig(caFile, certFile, keyFile string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client cert: %w", err)
	}

	return &tls.Config{
		RootCAs:      caCertPool,
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
