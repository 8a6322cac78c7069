package bootstrap

import (
	"errors"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// StartEmbeddedNATSServer runs an in-process NATS server for setups
// without an external broker.
func StartEmbeddedNATSServer(logger *log.Logger) (*server.Server, error) {
	opts := &server.Options{}

	s, err := server.NewServer(opts)
	if err != nil {
		return nil, err
	}

	go s.Start()

	if !s.ReadyForConnections(10 * time.Second) {
		return nil, errors.New("NATS server not ready in time")
	}

	addr := s.Addr()
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return nil, errors.New("unexpected address type")
	}

	logger.Info("Started NATS server", "port", tcpAddr.Port)
	return s, nil
}

// NewNatsClient connects to the given NATS URL, or to the embedded server's
// default address when url is empty.
func NewNatsClient(url string) (*nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	return nats.Connect(url)
}
