package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/athlete-imagery/internal/platform/logging"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type ConnectOptions struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	AppName        string
	Logger         *logging.Logger
}

// Connect dials the deployment, pings the primary and returns the client and
// the configured database.
func Connect(ctx context.Context, opts ConnectOptions) (*mongo.Client, *mongo.Database, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(opts.ConnectTimeout).
		SetMonitor(newCommandTracer(opts.Logger))
	if opts.AppName != "" {
		clientOpts.SetAppName(opts.AppName)
	}

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, client.Database(opts.Database), nil
}
