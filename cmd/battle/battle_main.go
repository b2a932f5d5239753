package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"AncientWarfare/internal/balance"
	battleactor "AncientWarfare/internal/battle/actor"
	"AncientWarfare/internal/battle/actors"
	"AncientWarfare/internal/battle/app/port"
	battlehttp "AncientWarfare/internal/battle/interfaces/handler/http"
	"AncientWarfare/internal/battle/infra/persistence/memory"
	battlemongo "AncientWarfare/internal/battle/infra/persistence/mongodb"
	battlemysql "AncientWarfare/internal/battle/infra/persistence/mysql"
	"AncientWarfare/internal/combat/resolve"
	"AncientWarfare/internal/shared/appconfig"
	"AncientWarfare/internal/shared/idgen"
	shareddb "AncientWarfare/internal/shared/infrastructure/db"
	sharedmongo "AncientWarfare/internal/shared/infrastructure/mongo"
	"AncientWarfare/internal/shared/logs"
	"AncientWarfare/internal/shared/transport/grpc"
	"AncientWarfare/internal/shared/transport/http"
	"AncientWarfare/internal/shared/transport/ws"
	"AncientWarfare/modules/kit/logx"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		os.Exit(healthcheck(os.Args[2:]))
	}

	cfgName := pflag.StringP("config", "c", "", "配置文件路径，缺省时按 ANCIENTWAR_CONFIG 或向上查找 configs/conf.yml")
	pflag.Parse()

	conf, err := appconfig.Load(*cfgName)
	if err != nil {
		panic(err)
	}
	if err := logs.Init("battle", conf.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logs.Sync() }()
	logs.Info("conf", zap.Any("conf", conf))
	log := logx.NewZapLogger(logs.Logger())

	repo, closeRepo, err := openRepository(conf)
	if err != nil {
		logs.Fatal("open battle repository failed", zap.String("backend", conf.Storage.Backend), zap.Error(err))
	}
	defer closeRepo()

	ids, err := idgen.NewSnowflake(conf.Battle.NodeID)
	if err != nil {
		logs.Fatal("init snowflake failed", zap.Error(err))
	}

	hub := battlehttp.NewHub(log)
	rt := battleactor.NewRuntime(actors.Options{
		Repo:        repo,
		Engine:      resolve.NewEngine(conf.Combat),
		Publisher:   hub,
		Log:         log,
		FlushEvery:  conf.Battle.FlushInterval,
		IdleTimeout: conf.Battle.IdleTimeout,
	}, conf.Battle.AskTimeout)

	wsRouter := ws.NewRouter(log)
	handler := battlehttp.NewHttpHandler(battlehttp.Options{
		Battles:  rt,
		Sweeper:  currentSweeper{log: log},
		IDs:      ids,
		Hub:      hub,
		WSServer: ws.NewServer(wsRouter, log),
		Log:      log,
	})
	handler.RegisterWS(wsRouter)

	httpAddr := fmt.Sprintf("%s:%d", conf.HTTPServer.Host, conf.HTTPServer.Port)
	var httpOpts []http.Option
	if conf.HTTPServer.ReadTimeout > 0 {
		httpOpts = append(httpOpts, http.WithReadTimeout(conf.HTTPServer.ReadTimeout))
	}
	if conf.HTTPServer.IdleTimeout > 0 {
		httpOpts = append(httpOpts, http.WithIdleTimeout(conf.HTTPServer.IdleTimeout))
	}
	httpServer := http.NewHttpServer(httpAddr, log, httpOpts...)
	handler.RegisterRoutes(httpServer.Engine())

	grpcAddr := fmt.Sprintf("%s:%d", conf.GRPCServer.Host, conf.GRPCServer.Port)
	healthServer := grpc.NewServer(grpcAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logs.Info("http server started", zap.String("addr", httpAddr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logs.Info("grpc health server started", zap.String("addr", grpcAddr))
		return healthServer.Serve()
	})
	healthServer.SetServing(true)

	g.Go(func() error {
		<-gctx.Done()
		logs.Info("收到退出信号，准备优雅退出")
		healthServer.SetServing(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logs.Warn("http shutdown failed", zap.Error(err))
		}
		// 先停 actor，让每场战斗把最后的快照写进仓储
		rt.Shutdown()
		healthServer.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logs.Error("battle server exited with error", zap.Error(err))
	}
}

// openRepository 按 storage.backend 选择仓储，返回的 close 负责释放连接。
func openRepository(conf *appconfig.Config) (port.BattleRepository, func(), error) {
	switch conf.Storage.Backend {
	case appconfig.BackendMemory:
		return memory.NewBattleRepository(), func() {}, nil
	case appconfig.BackendMongoDB:
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		store, err := sharedmongo.Open(ctx, conf.MongoDB, logs.Logger())
		if err != nil {
			return nil, nil, err
		}
		repo := battlemongo.NewBattleRepository(store.DB)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logs.Warn("ensure battle indexes failed", zap.Error(err))
		}
		return repo, func() { _ = store.Close(context.Background()) }, nil
	case appconfig.BackendMySQL:
		gdb, err := shareddb.Open(conf.MySQL)
		if err != nil {
			return nil, nil, err
		}
		repo := battlemysql.NewBattleRepo(gdb)
		if err := repo.Migrate(context.Background()); err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", conf.Storage.Backend)
	}
}

// currentSweeper 每次扫描都读取最新配置，配置热更新后无需重启即可生效。
type currentSweeper struct {
	log logx.Logger
}

func (s currentSweeper) Run(ctx context.Context, sc balance.Scenario) (balance.Report, error) {
	conf := appconfig.Current()
	return balance.NewRunner(conf.Combat,
		balance.WithWorkers(conf.Balance.Workers),
		balance.WithIterations(conf.Balance.Iterations),
		balance.WithLogger(s.log),
	).Run(ctx, sc)
}

// healthcheck 供容器探针使用：battle healthcheck -addr 127.0.0.1:9090
func healthcheck(args []string) int {
	fs := pflag.NewFlagSet("healthcheck", pflag.ContinueOnError)
	addr := fs.String("addr", "127.0.0.1:9090", "gRPC 健康检查地址")
	timeout := fs.Duration("timeout", 3*time.Second, "探测超时")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ok, err := grpc.Probe(ctx, *addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck failed:", err)
		return 1
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "battle service not serving")
		return 1
	}
	fmt.Println("SERVING")
	return 0
}
