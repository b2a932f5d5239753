// Package mongo 打开 mongo-driver v2 客户端，战斗快照仓储在它之上建集合。
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"AncientWarfare/internal/shared/appconfig"
	"AncientWarfare/modules/kit/errx"
)

const defaultAppName = "ancientwarfare-battle"

var ErrEmptyURI = errx.ErrReqParamERR.WithData("reason", "mongodb uri is empty")

// Store 持有客户端与业务库。
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Open 连接并 ping 主节点；ping 失败时断开连接，返回 ErrUnavailable。
func Open(ctx context.Context, cfg appconfig.MongoDBConfig, l *zap.Logger) (*Store, error) {
	if cfg.URI == "" {
		return nil, ErrEmptyURI
	}
	if l == nil {
		l = zap.NewNop()
	}
	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(clientOptions(cfg, timeout))
	if err != nil {
		return nil, errx.ErrUnavailable.WithData("backend", "mongodb").WithCause(err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errx.ErrUnavailable.WithData("backend", "mongodb").WithCause(err)
	}
	l.Info("open mongodb success", zap.String("database", cfg.Database), zap.Uint64("max_pool", cfg.MaxPoolSize))
	return &Store{Client: client, DB: client.Database(cfg.Database)}, nil
}

func clientOptions(cfg appconfig.MongoDBConfig, timeout time.Duration) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetAppName(defaultAppName)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	return opts
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}
